package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReporter(t *testing.T) {
	t.Parallel()

	t.Run("overwrites message while running", func(t *testing.T) {
		t.Parallel()

		jobStore := NewMockJobStore()
		job := newPendingJob(t, jobStore)
		require.NoError(t, jobStore.MarkRunning(context.Background(), job.ID))

		reporter := NewStatusReporter(jobStore, testLogger())
		reporter.Report(context.Background(), job.ID, "step 1")
		reporter.Report(context.Background(), job.ID, "step 2")

		got, err := jobStore.GetByID(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Equal(t, "step 2", got.StatusMessage)
	})

	t.Run("ignores writes outside running state", func(t *testing.T) {
		t.Parallel()

		jobStore := NewMockJobStore()
		job := newPendingJob(t, jobStore)

		reporter := NewStatusReporter(jobStore, testLogger())
		reporter.Report(context.Background(), job.ID, "too early")

		got, err := jobStore.GetByID(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Empty(t, got.StatusMessage)

		// Terminal job: a stale update from a finished task is dropped.
		_, err = jobStore.Cancel(context.Background(), job.ID)
		require.NoError(t, err)
		reporter.Report(context.Background(), job.ID, "too late")

		got, err = jobStore.GetByID(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Empty(t, got.StatusMessage)
	})

	t.Run("unknown job is a no-op", func(t *testing.T) {
		t.Parallel()

		reporter := NewStatusReporter(NewMockJobStore(), testLogger())
		reporter.Report(context.Background(), uuid.New(), "nobody home")
	})
}
