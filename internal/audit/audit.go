// Package audit captures an append-only trail of committed record mutations.
// Events are emitted by the record container's subscriber hook; the trail is
// internal observability, not part of the public API.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rirekisho/internal/record"
	"rirekisho/pkg/domain"
)

// Event is one committed mutation. Transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	ApplicationID domain.ApplicationID
	Action        string
	Field         string
	Revision      int64
	Timestamp     time.Time
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, id domain.ApplicationID) ([]Event, error)
}

// MemoryStore keeps events in memory, grouped by application.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[domain.ApplicationID][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[domain.ApplicationID][]Event)}
}

func (s *MemoryStore) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ApplicationID] = append(s.events[event.ApplicationID], event)
	return nil
}

func (s *MemoryStore) ListByApplication(ctx context.Context, id domain.ApplicationID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.events[id]
	out := make([]Event, len(events))
	copy(out, events)
	return out, nil
}

// Publisher bridges record updates into the audit store. Its Record method
// is wired as a container subscriber; append failures are logged, never
// propagated back into the mutation path.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Record converts one container update into an audit event.
func (p *Publisher) Record(update record.Update) {
	event := Event{
		ApplicationID: update.ApplicationID,
		Action:        update.Action,
		Field:         update.Field,
		Revision:      update.Revision,
		Timestamp:     update.Timestamp,
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(context.Background(), event); err != nil {
		p.logger.Error("audit append failed",
			"application_id", event.ApplicationID.String(), "action", event.Action, "error", err)
	}
}
