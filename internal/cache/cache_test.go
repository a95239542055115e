package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scholar-api/internal/cache"
)

func TestJobResultKey(t *testing.T) {
	t.Parallel()

	jobID := uuid.MustParse("5d3e8b6a-1f2c-4e7d-9a0b-3c4d5e6f7a8b")
	assert.Equal(t, "job:result:5d3e8b6a-1f2c-4e7d-9a0b-3c4d5e6f7a8b", cache.JobResultKey(jobID))
}

func TestNewRedisCache_RejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := cache.NewRedisCache("not-a-redis-url")
	require.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var c cache.Cache = cache.NoopCache{}

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	val, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "noop cache never stores values")
	assert.Nil(t, val)

	require.NoError(t, c.Delete(ctx, "k"))
}
