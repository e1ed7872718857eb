package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	"rirekisho/pkg/platform/sentinel"
)

// PostgresStore persists application envelopes as JSONB rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the applications table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS applications (
	id         UUID PRIMARY KEY,
	revision   BIGINT      NOT NULL,
	record     JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure applications schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, app *Application) error {
	blob, err := json.Marshal(app.Record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	const query = `
INSERT INTO applications (id, revision, record, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	revision   = EXCLUDED.revision,
	record     = EXCLUDED.record,
	updated_at = EXCLUDED.updated_at`
	_, err = s.pool.Exec(ctx, query, app.ID.UUID, app.Revision, blob, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id domain.ApplicationID) (*Application, error) {
	const query = `
SELECT revision, record, created_at, updated_at
FROM applications
WHERE id = $1`
	app := &Application{ID: id}
	var blob []byte
	err := s.pool.QueryRow(ctx, query, id.UUID).Scan(&app.Revision, &blob, &app.CreatedAt, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	// Older blobs may predate optional subsections; absent fields decode as
	// not yet provided.
	app.Record = resume.Default()
	if err := json.Unmarshal(blob, &app.Record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ApplicationID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id.UUID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
