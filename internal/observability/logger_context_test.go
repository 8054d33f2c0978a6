package observability_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/observability"
)

func TestLoggerRoundTrip(t *testing.T) {
	t.Parallel()
	lg := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := observability.ContextWithLogger(context.Background(), lg)
	assert.Same(t, lg, observability.LoggerFromContext(ctx))
}

func TestLoggerFromContext_Defaults(t *testing.T) {
	t.Parallel()
	assert.Same(t, slog.Default(), observability.LoggerFromContext(context.Background()))
	assert.Same(t, slog.Default(), observability.LoggerFromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := observability.ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", observability.RequestIDFromContext(ctx))
	assert.Empty(t, observability.RequestIDFromContext(context.Background()))
	// Empty ids are not stored.
	ctx = observability.ContextWithRequestID(context.Background(), "")
	assert.Empty(t, observability.RequestIDFromContext(ctx))
}
