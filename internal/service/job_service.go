package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/phrazzld/scholar-api/internal/task"
)

// TaskCanceler signals a running execution that its job was cancelled.
// Implemented by task.CancelRegistry.
type TaskCanceler interface {
	Cancel(jobID uuid.UUID) bool
}

// JobService provides the discovery job lifecycle operations exposed over
// the API.
type JobService interface {
	// SubmitJob validates the inputs, persists a pending job and emits a
	// task request event for background execution. The returned job is in
	// pending status.
	SubmitJob(ctx context.Context, inputs domain.DiscoveryInputs) (*domain.Job, error)

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)

	// CancelJob requests cancellation of a job. The job's status flips to
	// cancelled immediately unless it is already terminal, in which case
	// the call succeeds without changing anything. Background work for
	// the job is signalled to stop and unwinds on its own schedule.
	CancelJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)
}

// Sentinel errors returned by JobService.
var (
	ErrJobNotFound = errors.New("job not found")
)

// JobServiceError wraps service failures with the operation that failed.
type JobServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *JobServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("job service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("job service %s failed: %s", e.Operation, e.Message)
}

func (e *JobServiceError) Unwrap() error {
	return e.Err
}

// newJobServiceError maps store sentinels to service sentinels and wraps
// everything else.
func newJobServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrJobNotFound) || store.IsNotFoundError(err) {
		return ErrJobNotFound
	}
	return &JobServiceError{Operation: operation, Message: message, Err: err}
}

type jobServiceImpl struct {
	jobStore     store.JobStore
	eventEmitter events.EventEmitter
	canceler     TaskCanceler
	logger       *slog.Logger
}

// NewJobService creates a JobService. All dependencies except the logger
// are required.
func NewJobService(
	jobStore store.JobStore,
	eventEmitter events.EventEmitter,
	canceler TaskCanceler,
	logger *slog.Logger,
) (JobService, error) {
	if jobStore == nil {
		return nil, &JobServiceError{Operation: "create_service", Message: "jobStore cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &JobServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if canceler == nil {
		return nil, &JobServiceError{Operation: "create_service", Message: "canceler cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &jobServiceImpl{
		jobStore:     jobStore,
		eventEmitter: eventEmitter,
		canceler:     canceler,
		logger:       logger.With(slog.String("component", "job_service")),
	}, nil
}

func (s *jobServiceImpl) SubmitJob(ctx context.Context, inputs domain.DiscoveryInputs) (*domain.Job, error) {
	job, err := domain.NewJob(inputs)
	if err != nil {
		return nil, newJobServiceError("submit_job", "invalid job inputs", err)
	}

	if err := s.jobStore.Create(ctx, job); err != nil {
		s.logger.Error("failed to persist job",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		return nil, newJobServiceError("submit_job", "failed to save job", err)
	}

	s.logger.Info("job accepted",
		slog.String("job_id", job.ID.String()),
		slog.String("search_title", inputs.SearchTitle()))

	payload := struct {
		JobID uuid.UUID `json:"job_id"`
	}{JobID: job.ID}

	event, err := events.NewTaskRequestEvent(task.TaskTypeResourceDiscovery, payload)
	if err != nil {
		return nil, newJobServiceError("submit_job", "failed to build task request event", err)
	}

	// The job row already exists in pending status, so a failed emit does
	// not lose data. The orphan reaper never touches pending jobs, which
	// makes surfacing the error to the caller the right move here.
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit task request event",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		return nil, newJobServiceError("submit_job", "failed to enqueue job for execution", err)
	}

	return job, nil
}

func (s *jobServiceImpl) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return nil, newJobServiceError("get_job", "failed to load job", err)
	}
	return job, nil
}

func (s *jobServiceImpl) CancelJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	transitioned, err := s.jobStore.Cancel(ctx, jobID)
	if err != nil {
		return nil, newJobServiceError("cancel_job", "failed to cancel job", err)
	}

	if transitioned {
		// Signal the running execution, if any. A pending job has no
		// registered execution yet; the task notices the cancelled row
		// when it starts and exits without working.
		signalled := s.canceler.Cancel(jobID)
		s.logger.Info("job cancelled",
			slog.String("job_id", jobID.String()),
			slog.Bool("execution_signalled", signalled))
	} else {
		s.logger.Debug("cancel requested for already finished job",
			slog.String("job_id", jobID.String()))
	}

	job, err := s.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return nil, newJobServiceError("cancel_job", "failed to load job after cancel", err)
	}
	return job, nil
}
