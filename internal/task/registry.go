package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CancelRegistry tracks the cancellation function of every in-flight job
// so that a cancel request arriving on the foreground path can signal
// the background execution. Safe for concurrent use.
//
// Cancellation through the registry is cooperative: it cancels the
// job's context, and the running task stops at its next checkpoint.
// There is no bound on when the background work actually unwinds.
type CancelRegistry struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// NewCancelRegistry creates an empty CancelRegistry.
func NewCancelRegistry() *CancelRegistry {
	return &CancelRegistry{
		cancels: make(map[uuid.UUID]context.CancelFunc),
	}
}

// Register derives a cancellable context for the given job and records
// its cancel function. The returned release function unregisters the job
// and cancels the context; tasks must call it when execution ends.
func (r *CancelRegistry) Register(parent context.Context, jobID uuid.UUID) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	r.cancels[jobID] = cancel
	r.mu.Unlock()

	release := func() {
		r.mu.Lock()
		delete(r.cancels, jobID)
		r.mu.Unlock()
		cancel()
	}
	return ctx, release
}

// Cancel signals the in-flight execution of the given job, if any.
// It reports whether a registered execution was found; false means the
// job is not currently executing (still queued, or already finished),
// which is not an error for callers.
func (r *CancelRegistry) Cancel(jobID uuid.UUID) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[jobID]
	r.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}
