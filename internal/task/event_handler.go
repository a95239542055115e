package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/events"
)

// TaskFactoryEventHandler implements the events.EventHandler interface,
// turning task-request events emitted by the service layer into
// discovery tasks submitted to the runner. The indirection keeps the
// service layer free of a direct dependency on task construction.
type TaskFactoryEventHandler struct {
	factory *DiscoveryTaskFactory
	runner  *Runner
	logger  *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the
// given factory to create tasks and submits them to the runner.
func NewTaskFactoryEventHandler(
	factory *DiscoveryTaskFactory,
	runner *Runner,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes a task-request event by creating and submitting
// the corresponding discovery task.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeResourceDiscovery {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type, "event_id", event.ID)
		return nil
	}

	var payload struct {
		JobID string `json:"job_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		h.logger.Error("invalid job ID", "error", err, "job_id", payload.JobID, "event_id", event.ID)
		return fmt.Errorf("invalid job ID: %w", err)
	}

	task, err := h.factory.CreateTask(jobID)
	if err != nil {
		h.logger.Error("failed to create task", "error", err, "job_id", jobID, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err, "task_id", task.ID(), "job_id", jobID, "event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", task.ID(), "job_id", jobID, "event_id", event.ID)
	return nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
