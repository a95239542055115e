package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeResourceDiscovery is the task type for running a resource
	// discovery job against the configured discoverer.
	TaskTypeResourceDiscovery = "resource_discovery"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// JobID returns the identifier of the job this task executes
	JobID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic. The context carries the runner's
	// shutdown signal; per-job cooperative cancellation is layered on
	// top of it by the task itself.
	Execute(ctx context.Context) error
}
