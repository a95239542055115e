package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many discovery tasks run concurrently
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckJobAge defines how long a job can sit in the running state
	// before the reaper considers its execution orphaned and fails it
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often the reaper scans for
	// orphaned jobs. If zero, defaults to 5 minutes.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background execution of discovery tasks. Submit never
// blocks on task completion: it only hands the task to a buffered queue
// consumed by the worker pool.
type Runner struct {
	store      orphanStore
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

/// orphanStore is the slice of the job store the runner itself needs:
// finding and failing jobs whose execution was orphaned.
type orphanStore interface {
	FindStuckRunning(ctx context.Context, olderThan time.Duration) ([]uuid.UUID, error)
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error
}

// NewRunner creates a new Runner
func NewRunner(store orphanStore, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
	}
}

// Submit adds a task to the queue. It returns an error if the queue is
// full; the job row already exists, so the caller decides whether that
// maps to a retryable condition.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	select {
	case r.taskChan <- task:
		r.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"job_id", task.JobID(),
			"queue_len", len(r.taskChan),
			"queue_cap", cap(r.taskChan))
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start initializes the worker pool and the orphaned-job reaper.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.orphanReaper()
}

// Stop gracefully shuts down the runner. In-flight task contexts are
// cancelled; jobs interrupted mid-execution stay in running and are
// picked up by the reaper on the next run.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// worker processes tasks from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.taskChan:
			if !ok {
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask handles execution of a single task. Task errors are fully
// handled inside Execute (the job row ends up failed); the runner only
// logs them.
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"job_id", task.JobID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	if err := task.Execute(r.ctx); err != nil {
		logger.Error("task execution failed", "error", err)
		return
	}

	logger.Info("task finished")
}

// orphanReaper periodically marks jobs that have been running longer
// than StuckJobAge as failed. This is the mitigation for executions that
// died without a terminal transition (e.g. a crash mid-task): such jobs
// cannot self-heal, and an automatic timeout is a failure, not a
// client-intended cancellation.
func (r *Runner) orphanReaper() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.reapOnce()
		}
	}
}

// reapOnce runs a single orphaned-job scan.
func (r *Runner) reapOnce() {
	ctx := context.Background()

	stuck, err := r.store.FindStuckRunning(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to scan for orphaned jobs", "error", err)
		return
	}

	for _, id := range stuck {
		err := r.store.Fail(ctx, id,
			fmt.Sprintf("job exceeded maximum running time of %s", r.config.StuckJobAge))
		if err != nil {
			r.logger.Error("failed to reap orphaned job", "job_id", id, "error", err)
			continue
		}
		r.logger.Warn("orphaned job marked failed", "job_id", id)
	}
}
