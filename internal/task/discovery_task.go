package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/discovery"
	"github.com/phrazzld/scholar-api/internal/normalize"
	"github.com/phrazzld/scholar-api/internal/store"
)

// Common errors
var (
	ErrNilStore      = errors.New("job store cannot be nil")
	ErrNilDiscoverer = errors.New("discoverer cannot be nil")
	ErrNilReporter   = errors.New("status reporter cannot be nil")
	ErrNilRegistry   = errors.New("cancel registry cannot be nil")
	ErrEmptyJobID    = errors.New("job ID cannot be empty")
)

// DiscoveryTask implements the Task interface for one resource discovery
// job. Execute drives the job through its state machine: pending →
// running when it starts, then running → completed (raw output
// normalized and persisted in the same transition) or running → failed.
// A cancellation observed at any point makes the task stand down without
// touching the already-terminal job row.
type DiscoveryTask struct {
	id         uuid.UUID
	jobID      uuid.UUID
	store      store.JobStore
	discoverer discovery.Discoverer
	reporter   *StatusReporter
	registry   *CancelRegistry
	logger     *slog.Logger
}

// NewDiscoveryTask creates a new discovery task for the given job.
func NewDiscoveryTask(
	jobID uuid.UUID,
	jobStore store.JobStore,
	discoverer discovery.Discoverer,
	reporter *StatusReporter,
	registry *CancelRegistry,
	logger *slog.Logger,
) (*DiscoveryTask, error) {
	if jobStore == nil {
		return nil, ErrNilStore
	}
	if discoverer == nil {
		return nil, ErrNilDiscoverer
	}
	if reporter == nil {
		return nil, ErrNilReporter
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if jobID == uuid.Nil {
		return nil, ErrEmptyJobID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DiscoveryTask{
		id:         uuid.New(),
		jobID:      jobID,
		store:      jobStore,
		discoverer: discoverer,
		reporter:   reporter,
		registry:   registry,
		logger:     logger.With("task_type", TaskTypeResourceDiscovery, "job_id", jobID),
	}, nil
}

// ID returns the task's unique identifier
func (t *DiscoveryTask) ID() uuid.UUID {
	return t.id
}

// JobID returns the identifier of the job this task executes
func (t *DiscoveryTask) JobID() uuid.UUID {
	return t.jobID
}

// Type returns the task type identifier
func (t *DiscoveryTask) Type() string {
	return TaskTypeResourceDiscovery
}

// Execute runs the discovery job to a terminal state. Errors from the
// discoverer are mapped to the failed state and reported back to the
// runner for logging only; they never propagate as crashes. The only
// errors Execute returns are those worth surfacing in the runner's log.
func (t *DiscoveryTask) Execute(ctx context.Context) error {
	ctx, release := t.registry.Register(ctx, t.jobID)
	defer release()

	job, err := t.store.GetByID(ctx, t.jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	err = t.store.MarkRunning(ctx, t.jobID)
	if errors.Is(err, store.ErrJobFinalized) {
		// Cancelled while still queued; nothing to unwind.
		t.logger.Info("job finalized before execution started", "status", job.Status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	t.logger.Info("starting resource discovery")
	t.reporter.Report(ctx, t.jobID, "Discovery started")

	raw, err := t.discoverer.DiscoverResources(ctx, job.Inputs, t.reporter.ProgressFunc(ctx, t.jobID))
	if err != nil {
		return t.finishWithError(ctx, err)
	}

	records := normalize.Normalize(raw)
	t.logger.Info("discovery report normalized", "record_count", len(records))

	// Terminal writes use a detached context: a cancellation racing the
	// final transition is decided by the store's status guard, not by
	// which context died first.
	err = t.store.Complete(context.WithoutCancel(ctx), t.jobID, raw, records)
	if errors.Is(err, store.ErrJobFinalized) {
		t.logger.Info("discarding late completion, job already terminal")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to persist job result: %w", err)
	}

	t.logger.Info("resource discovery completed", "record_count", len(records))
	return nil
}

// finishWithError maps a discovery error onto the job's terminal state.
// Cooperative cancellations are not failures: the job row was already
// flipped to cancelled by the foreground path, so the task just unwinds.
func (t *DiscoveryTask) finishWithError(ctx context.Context, discoveryErr error) error {
	if errors.Is(discoveryErr, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		t.logger.Info("discovery task cancelled", "error", discoveryErr)
		return nil
	}

	err := t.store.Fail(context.WithoutCancel(ctx), t.jobID, discoveryErr.Error())
	if errors.Is(err, store.ErrJobFinalized) {
		t.logger.Info("discarding late failure, job already terminal", "error", discoveryErr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark job failed after %v: %w", discoveryErr, err)
	}

	t.logger.Warn("resource discovery failed", "error", discoveryErr)
	return fmt.Errorf("discovery failed: %w", discoveryErr)
}
