package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

type testMessage struct{ Name string }

func (testMessage) Type() string { return "devsync.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "devsync.test.invalid" }

func (invalidMessage) Validate() error { return errors.New("invalid") }

type entry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	entries *[]entry
	fields  map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]entry{}, fields: map[string]any{}}
}

func (r *recordingLogger) record(level, msg string, args []any) {
	*r.entries = append(*r.entries, entry{level: level, msg: msg, args: args})
}

func (r *recordingLogger) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *recordingLogger) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{entries: r.entries, fields: merged}
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) messages() []string {
	out := make([]string, 0, len(*r.entries))
	for _, e := range *r.entries {
		out = append(out, e.level+":"+e.msg)
	}
	return out
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to be preserved, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected original error to be wrapped, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	execErr := goerrors.New("remote down", goerrors.CategoryExternal)
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category to be kept, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestHandlerLogsWithMessageFields(t *testing.T) {
	logger := newRecordingLogger()
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	},
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("articles.create"),
		WithMessageFields[testMessage](func(msg testMessage) map[string]any {
			return map[string]any{"name": msg.Name}
		}),
	)

	_ = h.Execute(context.Background(), testMessage{Name: "foo"})

	got := logger.messages()
	want := []string{"debug:command.execute.start", "warn:command.execute.failed"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestHandlerCustomTelemetry(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("articles.update"),
		WithMessageFields[testMessage](func(msg testMessage) map[string]any {
			return map[string]any{"name": msg.Name}
		}),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), testMessage{Name: "bar"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusSuccess || info.Command != "devsync.test.message" || info.Operation != "articles.update" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["name"] != "bar" {
		t.Fatalf("expected message fields in telemetry, got %v", info.Fields)
	}
}
