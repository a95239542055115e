package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scholar-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		t.Parallel()
		err := MapError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrapped no rows maps to not found", func(t *testing.T) {
		t.Parallel()
		err := MapError(fmt.Errorf("query failed: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("check violation maps to invalid entity", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: checkViolationCode, ConstraintName: "jobs_status_check"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "jobs_status_check")
	})

	t.Run("not null violation maps to invalid entity", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: notNullViolationCode, ColumnName: "inputs"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection reset")
		assert.Equal(t, cause, MapError(cause))
	})
}

func TestIsCheckConstraintViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCheckConstraintViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsCheckConstraintViolation(&pgconn.PgError{Code: notNullViolationCode}))
	assert.False(t, IsCheckConstraintViolation(errors.New("other")))
}

func TestNewPostgresJobStore_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresJobStore(nil, nil) })
}
