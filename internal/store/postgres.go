// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/models"
)

// PostgresStore persists applications as a JSONB document plus a status
// column for worklist filtering. Commit runs under SELECT ... FOR UPDATE
// so concurrent patches to the same application serialize at the row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const createTableQuery = `
CREATE TABLE IF NOT EXISTS loan_applications (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Migrate creates the applications table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to migrate loan_applications: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Application, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM loan_applications WHERE id = $1`, id,
	).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application %s: %w", id, err)
	}
	return decodeApplication(raw)
}

func (s *PostgresStore) List(ctx context.Context, status *models.ApplicationStatus) ([]*models.Application, error) {
	query := `SELECT data FROM loan_applications ORDER BY id`
	args := []interface{}{}
	if status != nil {
		query = `SELECT data FROM loan_applications WHERE status = $1 ORDER BY id`
		args = append(args, string(*status))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		app, err := decodeApplication(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	now := time.Now().UTC()
	stored := app.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO loan_applications (id, status, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		stored.ID, string(stored.Status), raw, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application %s: %w", stored.ID, err)
	}
	return nil
}

func (s *PostgresStore) Commit(ctx context.Context, id string, patch models.Patch) (*models.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin commit tx: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM loan_applications WHERE id = $1 FOR UPDATE`, id,
	).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock application %s: %w", id, err)
	}

	app, err := decodeApplication(raw)
	if err != nil {
		return nil, err
	}

	patch.Apply(app)
	app.UpdatedAt = time.Now().UTC()

	updated, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to encode application: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loan_applications SET status = $2, data = $3, updated_at = $4 WHERE id = $1`,
		id, string(app.Status), updated, app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update application %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit application %s: %w", id, err)
	}
	return app, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM loan_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError(id)
	}
	return nil
}

func decodeApplication(raw []byte) (*models.Application, error) {
	var app models.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}
