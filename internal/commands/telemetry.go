package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// TelemetryStatus captures the result category of one execution attempt.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes an execution attempt.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	// Logger already carries Fields.
	Logger interfaces.Logger
}

// Telemetry is invoked after every execution attempt.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs attempt outcomes. Failed attempts are logged at warn
// level because the dispatcher may still retry them.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if entry == nil {
			entry = logging.WithFields(logger, info.Fields)
		}
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Debug("command.execute.success", args...)
		case TelemetryStatusContextError:
			entry.Warn("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Warn("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
