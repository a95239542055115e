package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	received []*TaskRequestEvent
	err      error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTaskRequestEvent_RoundTripsPayload(t *testing.T) {
	t.Parallel()

	type payload struct {
		JobID string `json:"job_id"`
	}

	event, err := NewTaskRequestEvent("resource_discovery", payload{JobID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "resource_discovery", event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded payload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, "abc", decoded.JobID)
}

func TestInMemoryEventEmitter_DeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(discardLogger())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := NewTaskRequestEvent("resource_discovery", map[string]string{"job_id": "x"})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, first.received, 1)
	assert.Len(t, second.received, 1)
}

func TestInMemoryEventEmitter_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(discardLogger())
	failing := &recordingHandler{err: errors.New("queue full")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := NewTaskRequestEvent("resource_discovery", nil)
	require.NoError(t, err)

	emitErr := emitter.EmitEvent(context.Background(), event)
	require.Error(t, emitErr)
	assert.Contains(t, emitErr.Error(), "queue full")
	assert.Len(t, healthy.received, 1, "remaining handlers still receive the event")
}

func TestInMemoryEventEmitter_NoHandlersIsNotAnError(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(discardLogger())
	event, err := NewTaskRequestEvent("resource_discovery", nil)
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}
