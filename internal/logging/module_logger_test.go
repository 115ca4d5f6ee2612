package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-devsync/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

type plainLogger struct{}

func (plainLogger) Trace(string, ...any) {}
func (plainLogger) Debug(string, ...any) {}
func (plainLogger) Info(string, ...any)  {}
func (plainLogger) Warn(string, ...any)  {}
func (plainLogger) Error(string, ...any) {}
func (plainLogger) Fatal(string, ...any) {}

func (p plainLogger) WithContext(context.Context) interfaces.Logger { return p }

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "devsync.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = SyncLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != syncModule {
		t.Fatalf("expected module %s, got %v", syncModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != syncModule {
		t.Fatalf("expected module field %s, got %v", syncModule, got)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedLoggersRequestTheirModules(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		remoteModule:   RemoteLogger,
		commandsModule: CommandsLogger,
		watchModule:    WatchLogger,
	}
	for module, build := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = build(provider)
		if len(provider.requested) == 0 || provider.requested[0] != module {
			t.Fatalf("expected %s request, got %v", module, provider.requested)
		}
	}
}

func TestWithDocumentContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithDocumentContext(rec, " posts/foo.md ", "Foo", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldDocumentPath] != "posts/foo.md" {
		t.Fatalf("expected trimmed path, got %v", fields[fieldDocumentPath])
	}
	if fields[fieldDocumentTitle] != "Foo" {
		t.Fatalf("expected title, got %v", fields[fieldDocumentTitle])
	}
	if _, ok := fields[fieldSyncAction]; ok {
		t.Fatalf("expected empty action to be skipped, got %v", fields)
	}
}

func TestWithFieldsIgnoresLoggersWithoutFieldsSupport(t *testing.T) {
	logger := plainLogger{}
	if got := WithFields(logger, map[string]any{"a": 1}); got != interfaces.Logger(logger) {
		t.Fatalf("expected logger to be returned unchanged, got %T", got)
	}
	if Ensure(nil) == nil {
		t.Fatalf("expected Ensure to return a logger")
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"run_id": "abc", "a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"a": 2})

	fields := ContextFields(ctx)
	if fields["run_id"] != "abc" || fields["a"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["run_id"] = "mutated"
	if ContextFields(ctx)["run_id"] != "abc" {
		t.Fatalf("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatalf("expected nil fields for bare context")
	}
}
