package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// runRow is the database shape of a persisted enrichment run; the options
// and result matrices travel as JSON payloads.
type runRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Options   []byte    `db:"options"`
	Result    []byte    `db:"result"`
}

// RunRepository stores completed enrichment runs in Postgres.
type RunRepository struct {
	db *sqlx.DB
}

// Connect opens a Postgres connection pool and verifies it.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the runs table when it does not exist yet.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS enrichment_runs (
			id         TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			options    JSONB NOT NULL,
			result     JSONB NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create enrichment_runs table: %w", err)
	}
	return nil
}

// SaveRun inserts a completed run.
func (r *RunRepository) SaveRun(ctx context.Context, run *enrichment.Run) error {
	row, err := encodeRun(run)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO enrichment_runs (id, created_at, options, result)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, row.ID, row.CreatedAt, row.Options, row.Result); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", row.ID, err)
	}
	return nil
}

// GetRun fetches one run by id.
func (r *RunRepository) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	var row runRow
	query := `SELECT id, created_at, options, result FROM enrichment_runs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}
	return decodeRun(&row)
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*enrichment.Run, error) {
	var rows []runRow
	query := `SELECT id, created_at, options, result FROM enrichment_runs ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs := make([]*enrichment.Run, 0, len(rows))
	for i := range rows {
		run, err := decodeRun(&rows[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func encodeRun(run *enrichment.Run) (*runRow, error) {
	options, err := json.Marshal(run.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run options: %w", err)
	}
	result, err := json.Marshal(run.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run result: %w", err)
	}
	return &runRow{
		ID:        run.ID.String(),
		CreatedAt: run.CreatedAt,
		Options:   options,
		Result:    result,
	}, nil
}

func decodeRun(row *runRow) (*enrichment.Run, error) {
	run := &enrichment.Run{
		ID:        core.RunID(row.ID),
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.Options, &run.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options of run %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Result, &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result of run %s: %w", row.ID, err)
	}
	return run, nil
}
