package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCancelRegistry(t *testing.T) {
	t.Parallel()

	t.Run("cancel signals the registered context", func(t *testing.T) {
		t.Parallel()

		registry := NewCancelRegistry()
		jobID := uuid.New()

		ctx, release := registry.Register(context.Background(), jobID)
		defer release()

		assert.NoError(t, ctx.Err())
		assert.True(t, registry.Cancel(jobID))
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("cancel of unknown job reports false", func(t *testing.T) {
		t.Parallel()

		registry := NewCancelRegistry()
		assert.False(t, registry.Cancel(uuid.New()))
	})

	t.Run("release unregisters and cancels", func(t *testing.T) {
		t.Parallel()

		registry := NewCancelRegistry()
		jobID := uuid.New()

		ctx, release := registry.Register(context.Background(), jobID)
		release()

		assert.ErrorIs(t, ctx.Err(), context.Canceled)
		assert.False(t, registry.Cancel(jobID))
	})
}
