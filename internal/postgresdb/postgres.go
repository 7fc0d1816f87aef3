package postgresdb

import (
	"context"
	"fmt"

	"career-insights/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id            UUID PRIMARY KEY,
		run_status    TEXT NOT NULL,
		file_name     TEXT NOT NULL,
		model         TEXT NOT NULL,
		insights      TEXT,
		error_message TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// Migrate creates the runs table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to create runs table: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, run *models.Run) error {

	sql := `
		INSERT INTO runs (id, run_status, file_name, model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`

	_, err := s.Pool.Exec(
		ctx,
		sql,
		run.ID,
		run.Status.String(),
		run.FileName,
		run.Model,
		run.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, runID uuid.UUID, status models.Status) error {
	sql := `UPDATE runs
              SET run_status = $1, updated_at = NOW()
              WHERE id = $2`

	if _, err := s.Pool.Exec(ctx, sql, status.String(), runID); err != nil {
		return fmt.Errorf("failed to update status for run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) Complete(ctx context.Context, runID uuid.UUID, insights string) error {
	sql := `UPDATE runs
              SET run_status = $1, insights = $2, updated_at = NOW()
              WHERE id = $3`

	if _, err := s.Pool.Exec(ctx, sql, models.StatusCompleted.String(), insights, runID); err != nil {
		return fmt.Errorf("failed to complete run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) Fail(ctx context.Context, runID uuid.UUID, errMsg string) error {
	sql := `UPDATE runs
              SET run_status = $1, error_message = $2, updated_at = NOW()
              WHERE id = $3`

	if _, err := s.Pool.Exec(ctx, sql, models.StatusFailed.String(), errMsg, runID); err != nil {
		return fmt.Errorf("failed to mark run %s as failed: %w", runID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, runID uuid.UUID) (*models.Run, error) {

	var run models.Run

	// convert to string before sending back
	var statusString string

	sql := `
        SELECT id, run_status, file_name, model, insights, error_message, created_at
        FROM runs
        WHERE id = $1
        `

	err := s.Pool.QueryRow(
		ctx,
		sql,
		runID,
	).Scan(
		&run.ID,
		&statusString,
		&run.FileName,
		&run.Model,
		&run.Insights,
		&run.ErrorMessage,
		&run.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve run %s: %w", runID, err)
	}

	run.Status = models.ParseStatus(statusString)

	return &run, nil
}
