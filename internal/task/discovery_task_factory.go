package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/discovery"
	"github.com/phrazzld/scholar-api/internal/store"
)

// DiscoveryTaskFactory creates DiscoveryTask instances
type DiscoveryTaskFactory struct {
	store      store.JobStore
	discoverer discovery.Discoverer
	reporter   *StatusReporter
	registry   *CancelRegistry
	logger     *slog.Logger
}

// NewDiscoveryTaskFactory creates a new factory for DiscoveryTasks
func NewDiscoveryTaskFactory(
	jobStore store.JobStore,
	discoverer discovery.Discoverer,
	reporter *StatusReporter,
	registry *CancelRegistry,
	logger *slog.Logger,
) *DiscoveryTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoveryTaskFactory{
		store:      jobStore,
		discoverer: discoverer,
		reporter:   reporter,
		registry:   registry,
		logger:     logger.With("component", "discovery_task_factory"),
	}
}

// CreateTask creates a new DiscoveryTask for the specified job
func (f *DiscoveryTaskFactory) CreateTask(jobID uuid.UUID) (Task, error) {
	return NewDiscoveryTask(
		jobID,
		f.store,
		f.discoverer,
		f.reporter,
		f.registry,
		f.logger,
	)
}
