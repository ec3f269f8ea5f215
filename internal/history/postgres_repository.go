package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
//
// Expected schema:
//
//	CREATE TABLE status_snapshots (
//	    id         TEXT PRIMARY KEY,
//	    provider   TEXT NOT NULL,
//	    summary    JSONB NOT NULL,
//	    fetched_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL snapshot repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert implements Repository.
func (r *PostgresRepository) Insert(ctx context.Context, snapshot Snapshot) error {
	summaryJSON, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return fmt.Errorf("encoding snapshot summary: %w", err)
	}

	query := `
		INSERT INTO status_snapshots (id, provider, summary, fetched_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = r.pool.Exec(ctx, query, snapshot.ID, snapshot.Provider, summaryJSON, snapshot.FetchedAt)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// List implements Repository.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = defaultMemoryCapacity
	}

	query := `
		SELECT id, provider, summary, fetched_at
		FROM status_snapshots
		ORDER BY fetched_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// Latest implements Repository.
func (r *PostgresRepository) Latest(ctx context.Context) (Snapshot, error) {
	query := `
		SELECT id, provider, summary, fetched_at
		FROM status_snapshots
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query)

	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshots
		}
		return Snapshot{}, err
	}
	return snapshot, nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snapshot    Snapshot
		summaryJSON []byte
	)
	if err := row.Scan(&snapshot.ID, &snapshot.Provider, &summaryJSON, &snapshot.FetchedAt); err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal(summaryJSON, &snapshot.Summary); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot summary: %w", err)
	}
	return snapshot, nil
}
