package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/task"
)

type capturingEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (e *capturingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

type fakeCanceler struct {
	cancelled []uuid.UUID
	found     bool
}

func (c *fakeCanceler) Cancel(jobID uuid.UUID) bool {
	c.cancelled = append(c.cancelled, jobID)
	return c.found
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, jobStore *task.MockJobStore, emitter *capturingEmitter, canceler *fakeCanceler) JobService {
	t.Helper()
	svc, err := NewJobService(jobStore, emitter, canceler, testLogger())
	require.NoError(t, err)
	return svc
}

func TestNewJobService_Validation(t *testing.T) {
	t.Parallel()

	jobStore := task.NewMockJobStore()
	emitter := &capturingEmitter{}
	canceler := &fakeCanceler{}

	_, err := NewJobService(nil, emitter, canceler, testLogger())
	assert.Error(t, err)

	_, err = NewJobService(jobStore, nil, canceler, testLogger())
	assert.Error(t, err)

	_, err = NewJobService(jobStore, emitter, nil, testLogger())
	assert.Error(t, err)

	_, err = NewJobService(jobStore, emitter, canceler, nil)
	assert.NoError(t, err, "logger is optional")
}

func TestSubmitJob_CreatesPendingJobAndEmitsEvent(t *testing.T) {
	t.Parallel()

	jobStore := task.NewMockJobStore()
	emitter := &capturingEmitter{}
	svc := newService(t, jobStore, emitter, &fakeCanceler{})

	job, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{
		Subject:    "Linear Algebra",
		CourseName: "MATH 221",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)

	stored, err := jobStore.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, stored.Status)

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, task.TaskTypeResourceDiscovery, event.Type)

	var payload struct {
		JobID uuid.UUID `json:"job_id"`
	}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, job.ID, payload.JobID)
}

func TestSubmitJob_RejectsEmptyInputs(t *testing.T) {
	t.Parallel()

	jobStore := task.NewMockJobStore()
	emitter := &capturingEmitter{}
	svc := newService(t, jobStore, emitter, &fakeCanceler{})

	_, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyJobInputs)
	assert.Empty(t, emitter.events, "no event for a rejected submission")
}

func TestSubmitJob_EmitFailureSurfacesError(t *testing.T) {
	t.Parallel()

	jobStore := task.NewMockJobStore()
	emitter := &capturingEmitter{err: errors.New("queue unavailable")}
	svc := newService(t, jobStore, emitter, &fakeCanceler{})

	_, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{Subject: "Chemistry"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue")
}

func TestGetJob(t *testing.T) {
	t.Parallel()

	jobStore := task.NewMockJobStore()
	svc := newService(t, jobStore, &capturingEmitter{}, &fakeCanceler{})

	submitted, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{BookTitle: "Calculus"})
	require.NoError(t, err)

	got, err := svc.GetJob(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, submitted.ID, got.ID)

	_, err = svc.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCancelJob(t *testing.T) {
	t.Parallel()

	t.Run("pending job flips to cancelled and signals execution", func(t *testing.T) {
		t.Parallel()

		jobStore := task.NewMockJobStore()
		canceler := &fakeCanceler{}
		svc := newService(t, jobStore, &capturingEmitter{}, canceler)

		submitted, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{Subject: "Biology"})
		require.NoError(t, err)

		job, err := svc.CancelJob(context.Background(), submitted.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCancelled, job.Status)
		assert.Equal(t, []uuid.UUID{submitted.ID}, canceler.cancelled)
	})

	t.Run("cancel of terminal job is idempotent success", func(t *testing.T) {
		t.Parallel()

		jobStore := task.NewMockJobStore()
		canceler := &fakeCanceler{}
		svc := newService(t, jobStore, &capturingEmitter{}, canceler)

		submitted, err := svc.SubmitJob(context.Background(), domain.DiscoveryInputs{Subject: "Biology"})
		require.NoError(t, err)

		require.NoError(t, jobStore.MarkRunning(context.Background(), submitted.ID))
		require.NoError(t, jobStore.Complete(context.Background(), submitted.ID, "raw", nil))

		job, err := svc.CancelJob(context.Background(), submitted.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCompleted, job.Status, "completed outcome is preserved")
		assert.Empty(t, canceler.cancelled, "no signal when nothing transitioned")
	})

	t.Run("unknown job maps to not found", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, task.NewMockJobStore(), &capturingEmitter{}, &fakeCanceler{})
		_, err := svc.CancelJob(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}
