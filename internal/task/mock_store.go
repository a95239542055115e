package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/store"
)

// MockJobStore is an in-memory store.JobStore used by tests across
// packages. It honors the same guarded-transition semantics as the
// postgres implementation, which is what the lifecycle tests exercise.
type MockJobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.Job

	// Optional hooks for error injection. When set, they run before the
	// default behavior and short-circuit it by returning a non-nil error.
	CreateErr      error
	MarkRunningErr error
	CompleteErr    error
}

// NewMockJobStore creates an empty MockJobStore.
func NewMockJobStore() *MockJobStore {
	return &MockJobStore{jobs: make(map[uuid.UUID]*domain.Job)}
}

var _ store.JobStore = (*MockJobStore)(nil)

// Create implements store.JobStore.Create.
func (m *MockJobStore) Create(ctx context.Context, job *domain.Job) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := job.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

// GetByID implements store.JobStore.GetByID.
func (m *MockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

// MarkRunning implements store.JobStore.MarkRunning.
func (m *MockJobStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	if m.MarkRunningErr != nil {
		return m.MarkRunningErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	if job.Status != domain.JobStatusPending {
		return store.ErrJobFinalized
	}
	job.Status = domain.JobStatusRunning
	return nil
}

// SetStatusMessage implements store.JobStore.SetStatusMessage.
func (m *MockJobStore) SetStatusMessage(ctx context.Context, id uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok || job.Status != domain.JobStatusRunning {
		return nil
	}
	job.StatusMessage = message
	return nil
}

// Complete implements store.JobStore.Complete.
func (m *MockJobStore) Complete(ctx context.Context, id uuid.UUID, rawOutput string, result []domain.ResourceRecord) error {
	if m.CompleteErr != nil {
		return m.CompleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	if job.Status != domain.JobStatusRunning {
		return store.ErrJobFinalized
	}
	if result == nil {
		result = []domain.ResourceRecord{}
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusCompleted
	job.RawOutput = rawOutput
	job.Result = result
	job.CompletedAt = &now
	return nil
}

// Fail implements store.JobStore.Fail.
func (m *MockJobStore) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	if job.Status.IsTerminal() {
		return store.ErrJobFinalized
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusFailed
	job.Error = errMsg
	job.CompletedAt = &now
	return nil
}

// Cancel implements store.JobStore.Cancel.
func (m *MockJobStore) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return false, store.ErrJobNotFound
	}
	if job.Status.IsTerminal() {
		return false, nil
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusCancelled
	job.CompletedAt = &now
	return true, nil
}

// FindStuckRunning implements store.JobStore.FindStuckRunning. The mock
// does not track transition timestamps, so any running job older than
// the threshold by CreatedAt qualifies.
func (m *MockJobStore) FindStuckRunning(ctx context.Context, olderThan time.Duration) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var ids []uuid.UUID
	for id, job := range m.jobs {
		if job.Status == domain.JobStatusRunning && job.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
