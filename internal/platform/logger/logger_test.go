package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scholar-api/internal/config"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "DEBUG"},
		{name: "empty defaults to info", logLevel: ""},
		{name: "invalid falls back to info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestSetup_SetsDefaultLogger(t *testing.T) {
	log, err := logger.Setup(config.ServerConfig{LogLevel: "info"})
	require.NoError(t, err)
	assert.Same(t, log, slog.Default())
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := logger.WithLogger(context.Background(), custom)
		assert.Same(t, custom, logger.FromContext(ctx))
		assert.Same(t, custom, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("missing logger uses fallback", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, logger.FromContext(context.Background()))
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback uses slog default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	})

	t.Run("nil logger leaves context unchanged", func(t *testing.T) {
		t.Parallel()
		ctx := logger.WithLogger(context.Background(), nil)
		assert.Nil(t, logger.FromContext(ctx))
	})
}
