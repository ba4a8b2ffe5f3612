package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if isUniqueViolation(err) {
		return &repository.DuplicateError{Constraint: uniqueColumn(err), Err: err}
	}
	return err
}

// uniqueColumn extracts "table.column" from "UNIQUE constraint failed: table.column".
func uniqueColumn(err error) string {
	msg := err.Error()
	idx := strings.Index(msg, "UNIQUE constraint failed: ")
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len("UNIQUE constraint failed: "):]
	if end := strings.IndexAny(rest, " )"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
