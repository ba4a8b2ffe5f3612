package sqlite

import (
	"context"
	"fmt"
)

// SequenceRepository implements repository.SequenceRepository for SQLite
type SequenceRepository struct {
	db *DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Increment creates the counter on first use and returns the incremented value.
func (r *SequenceRepository) Increment(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO sequence_counters (name, last_value, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET last_value = last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`
	var value int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return value, nil
}

// Current returns the last issued value, or 0 for an unused counter.
func (r *SequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	query := `SELECT COALESCE((SELECT last_value FROM sequence_counters WHERE name = ?), 0)`
	var value int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to read sequence %s: %w", name, err)
	}
	return value, nil
}
