// Package record is the state container for applications: it owns the
// authoritative copy of each applicant record, serializes every mutation,
// bumps a monotonically increasing revision per commit, and persists through
// a pluggable Store.
package record

import (
	"context"
	"time"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

// Application is the persistence envelope around one applicant record.
type Application struct {
	ID        domain.ApplicationID   `json:"id"`
	Revision  int64                  `json:"revision"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Record    resume.ApplicantRecord `json:"record"`
}

// Clone returns a deep copy of the envelope.
func (a *Application) Clone() *Application {
	out := *a
	out.Record = a.Record.Clone()
	return &out
}

// Store persists application envelopes. Find returns sentinel.ErrNotFound
// when the ID is unknown. Implementations must tolerate persisted records
// with optional fields absent.
type Store interface {
	Save(ctx context.Context, app *Application) error
	Find(ctx context.Context, id domain.ApplicationID) (*Application, error)
	Delete(ctx context.Context, id domain.ApplicationID) error
}
