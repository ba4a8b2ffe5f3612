package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *DB, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, db *DB, slug string) *domain.Category {
	t.Helper()
	category := &domain.Category{
		ID:        uuid.NewString(),
		Name:      slug,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	return category
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{"users", "categories", "tickets", "ticket_messages", "sequence_counters"}
	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Re-running is harmless.
	require.NoError(t, db.RunMigrations())
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestWithTimeFormat(t *testing.T) {
	require.Equal(t, ":memory:?_time_format=sqlite", withTimeFormat(":memory:"))
	require.Equal(t, "file:x.db?cache=shared&_time_format=sqlite", withTimeFormat("file:x.db?cache=shared"))
	require.Equal(t, "x.db?_time_format=sqlite", withTimeFormat("x.db?_time_format=sqlite"))
}
