package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single execution attempt.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext returns ctx, or context.Background when it is nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout applies timeout unless it is zero or negative.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	return logging.Ensure(logger)
}
