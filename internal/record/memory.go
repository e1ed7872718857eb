package record

import (
	"context"
	"sync"

	"rirekisho/pkg/domain"
	"rirekisho/pkg/platform/sentinel"
)

// MemoryStore keeps application envelopes in an in-process map. Suitable for
// tests and single-node runs; use PostgresStore for durable persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[domain.ApplicationID]*Application
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		apps: make(map[domain.ApplicationID]*Application),
	}
}

func (s *MemoryStore) Save(ctx context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app.Clone()
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id domain.ApplicationID) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id domain.ApplicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.apps, id)
	return nil
}
