// Package sqlite is the embedded storage backend. It implements the repository
// interfaces on top of modernc.org/sqlite for single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"fmt"
	"strings"

	sqlitedriver "modernc.org/sqlite"

	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

//go:embed schema.sql
var schema string

// foldLowerFunc is a Unicode-aware replacement for SQLite's ASCII-only LOWER.
const foldLowerFunc = "fold_lower"

// dialect is what the shared filter compiler emits for this backend.
var dialect = repository.Dialect{Placeholder: repository.QuestionPlaceholder, Lower: foldLowerFunc}

func init() {
	if err := sqlitedriver.RegisterDeterministicScalarFunction(foldLowerFunc, 1, foldLower); err != nil {
		panic(fmt.Sprintf("sqlite: register %s: %v", foldLowerFunc, err))
	}
}

func foldLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens a SQLite database. All access goes through a single connection so
// that ":memory:" databases are shared and writers are serialized.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", withTimeFormat(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the embedded schema. It is idempotent.
func (db *DB) RunMigrations() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// withTimeFormat makes the driver store timestamps in a sortable text layout.
func withTimeFormat(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
