package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// JobStore defines the interface for job data persistence.
//
// Mutating methods other than Create are guarded state transitions: each
// one is a single atomic update whose WHERE clause names the statuses the
// job must currently be in. A call that matches no rows because the job
// exists but has moved on returns ErrJobFinalized (or silently no-ops
// where documented), which is how the per-job "one logical writer"
// discipline is enforced without any in-process locking.
type JobStore interface {
	// Create saves a new job to the store.
	// Returns validation errors from the domain Job if data is invalid.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// MarkRunning transitions a job from pending to running.
	// Returns ErrJobNotFound if the job does not exist and ErrJobFinalized
	// if it is no longer pending (e.g. cancelled before the task started).
	MarkRunning(ctx context.Context, id uuid.UUID) error

	// SetStatusMessage overwrites the job's advisory progress message.
	// Writes against a job that is not running are ignored without error;
	// they indicate a stale update from an already-finished task.
	SetStatusMessage(ctx context.Context, id uuid.UUID, message string) error

	// Complete transitions a running job to completed, persisting the raw
	// report and the normalized result in the same atomic update so no
	// reader can observe completed without a populated result.
	// Returns ErrJobNotFound if the job does not exist and ErrJobFinalized
	// if it already reached a terminal state (e.g. a late completion
	// arriving after cancellation).
	Complete(ctx context.Context, id uuid.UUID, rawOutput string, result []domain.ResourceRecord) error

	// Fail transitions a pending or running job to failed with the given
	// error description. Returns ErrJobNotFound if the job does not exist
	// and ErrJobFinalized if it already reached a terminal state.
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error

	// Cancel transitions a pending or running job to cancelled. It reports
	// whether the transition happened; false with a nil error means the job
	// was already terminal, which callers treat as idempotent success.
	// Returns ErrJobNotFound if the job does not exist.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)

	// FindStuckRunning returns the IDs of jobs that have been running for
	// longer than the given age. Used by the orphaned-job reaper to map
	// abandoned executions to failed.
	FindStuckRunning(ctx context.Context, olderThan time.Duration) ([]uuid.UUID, error)
}
