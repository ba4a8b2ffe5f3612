package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	assert.Nil(t, translatePgError(nil))
	assert.ErrorIs(t, translatePgError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translatePgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := translatePgError(&pgconn.PgError{Code: "23505", ConstraintName: "tickets_code_key"})
	assert.ErrorIs(t, dup, ErrDuplicate)
	var dupErr *DuplicateError
	if assert.True(t, errors.As(dup, &dupErr)) {
		assert.Equal(t, "tickets_code_key", dupErr.Constraint)
	}

	other := errors.New("boom")
	assert.Same(t, other, translatePgError(other))
}
