package results

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL results repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveRows persists the rows of a run in one batch.
func (r *PostgresRepository) SaveRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO criteria_rows (
			run_id, station_id, criterion,
			years, "values", verdict, extra, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query,
			row.RunID,
			row.StationID,
			row.Criterion,
			row.Years,
			row.Values,
			row.Verdict,
			row.Extra,
			row.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert criteria row: %w", err)
		}
	}
	return nil
}

// ListByRun retrieves every row of a run in insertion order.
func (r *PostgresRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]Row, error) {
	query := `
		SELECT
			run_id, station_id, criterion,
			years, "values", verdict, extra, created_at
		FROM criteria_rows
		WHERE run_id = $1
		ORDER BY created_at, station_id, criterion
	`

	pgRows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list criteria rows: %w", err)
	}
	defer pgRows.Close()

	var out []Row
	for pgRows.Next() {
		var row Row
		if err := pgRows.Scan(
			&row.RunID,
			&row.StationID,
			&row.Criterion,
			&row.Years,
			&row.Values,
			&row.Verdict,
			&row.Extra,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan criteria row: %w", err)
		}
		out = append(out, row)
	}
	if err := pgRows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrRunNotFound
	}
	return out, nil
}
