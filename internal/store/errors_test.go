package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scholar-api/internal/store"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, store.IsNotFoundError(store.ErrNotFound))
	assert.True(t, store.IsNotFoundError(store.ErrJobNotFound))
	assert.True(t, store.IsNotFoundError(
		store.NewStoreError("job", "get", "query failed", store.ErrJobNotFound)))

	assert.False(t, store.IsNotFoundError(store.ErrJobFinalized))
	assert.False(t, store.IsNotFoundError(errors.New("boom")))
	assert.False(t, store.IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := store.NewStoreError("job", "create", "insert failed", cause)

	assert.Equal(t, "create operation on job failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := store.NewStoreError("job", "cancel", "update failed", nil)
	assert.Equal(t, "cancel operation on job failed: update failed", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
