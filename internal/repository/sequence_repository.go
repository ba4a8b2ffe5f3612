package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository builds the Postgres counter store.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

// Increment upserts and bumps the counter in one statement; concurrent callers
// serialize on the row lock and each observe a distinct value.
func (r *sequenceRepository) Increment(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO sequence_counters (name, last_value, updated_at)
        VALUES ($1, 1, NOW())
        ON CONFLICT (name) DO UPDATE
            SET last_value = sequence_counters.last_value + 1, updated_at = NOW()
        RETURNING last_value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, translatePgError(err)
	}
	return value, nil
}

func (r *sequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	const query = `SELECT COALESCE((SELECT last_value FROM sequence_counters WHERE name=$1), 0)`
	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, translatePgError(err)
	}
	return value, nil
}
