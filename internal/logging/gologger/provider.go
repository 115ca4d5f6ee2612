package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Config captures the options exposed by the go-logger adapter.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named module loggers, e.g. "devsync.remote".
	Focus []string
}

// Provider wraps go-logger so it satisfies interfaces.LoggerProvider.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider constructs a logger provider backed by go-logger.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := normalizeFocus(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root}, nil
}

func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, escapeReserved(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, escapeReserved(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, escapeReserved(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, escapeReserved(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, escapeReserved(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, escapeReserved(args)...) }

// reservedKey is rewritten by go-logger, which expects an slog.Level value.
const reservedKey = "level"

// escapeReserved renames a caller supplied "level" attribute to "log_level".
func escapeReserved(args []any) []any {
	idx := -1
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key == reservedKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return args
	}
	out := slices.Clone(args)
	for i := idx; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && key == reservedKey {
			out[i] = "log_" + reservedKey
		}
	}
	return out
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	fields = maps.Clone(fields)
	if value, ok := fields[reservedKey]; ok {
		delete(fields, reservedKey)
		fields["log_"+reservedKey] = value
	}

	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(fields))
	}

	// fall back to sorted key/value pairs
	keys := slices.Sorted(maps.Keys(fields))
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	if with, ok := l.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		return wrap(with.With(args...))
	}
	return l
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	inner := l.inner.WithContext(ctx)
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return (&adapter{inner: inner}).WithFields(fields)
	}
	return wrap(inner)
}

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	case "fatal":
		return glog.Fatal, nil
	default:
		return "", fmt.Errorf("logging: unsupported go-logger level %q", level)
	}
}

func normalizeFocus(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
