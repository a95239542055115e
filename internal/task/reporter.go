package task

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/discovery"
	"github.com/phrazzld/scholar-api/internal/store"
)

// StatusReporter publishes incremental progress messages for running
// jobs. Messages are advisory: a write against a job that is no longer
// running is a stale update from an already-finished task and is
// silently dropped by the store's guarded update.
type StatusReporter struct {
	store  store.JobStore
	logger *slog.Logger
}

// NewStatusReporter creates a StatusReporter backed by the given store.
func NewStatusReporter(jobStore store.JobStore, logger *slog.Logger) *StatusReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusReporter{
		store:  jobStore,
		logger: logger.With(slog.String("component", "status_reporter")),
	}
}

// Report overwrites the job's status message. Failures are logged and
// swallowed; progress reporting must never affect the job outcome.
func (r *StatusReporter) Report(ctx context.Context, jobID uuid.UUID, message string) {
	err := r.store.SetStatusMessage(ctx, jobID, message)
	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Debug("dropped status message",
			slog.String("job_id", jobID.String()),
			slog.String("message", message),
			slog.String("error", err.Error()))
	}
}

// ProgressFunc adapts the reporter to the discovery.ProgressFunc shape
// for a specific job.
func (r *StatusReporter) ProgressFunc(ctx context.Context, jobID uuid.UUID) discovery.ProgressFunc {
	return func(message string) {
		r.Report(ctx, jobID, message)
	}
}
