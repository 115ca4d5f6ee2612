// Package devsync keeps a directory of markdown articles in sync with a dev.to
// (Forem) account.
package devsync

import (
	"context"
	"errors"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	articlescmd "github.com/goliatone/go-devsync/internal/commands/articles"
	"github.com/goliatone/go-devsync/internal/di"
	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/internal/markdown"
	"github.com/goliatone/go-devsync/internal/push"
	"github.com/goliatone/go-devsync/internal/runtimeconfig"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// SyncResult summarises one pass.
type SyncResult = interfaces.SyncResult

// Preview is a validated document rendered for inspection.
type Preview = markdown.Preview

var (
	// ErrNotMarkdown is returned by Preview for paths that are not markdown files.
	ErrNotMarkdown = errors.New("devsync: not a markdown file")
	// ErrModuleOpen is returned by New while another Module has not been closed.
	ErrModuleOpen = articlescmd.ErrExecutorOpen
)

// Module represents the top level sync runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a Module using the provided configuration and optional DI
// overrides. Only one Module may be open at a time.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Push runs a single pass over the configured source tree. A non-nil error
// means the pass was aborted; rejected uploads are reported in the result.
func (m *Module) Push(ctx context.Context, apiKey string) (*SyncResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, runtimeconfig.MissingAPIKeyError()
	}
	cfg := m.container.Config
	return m.container.Runner().Run(ctx, apiKey, push.Options{Source: cfg.Source, DryRun: cfg.DryRun})
}

// Watch runs a pass, then reruns one whenever a markdown file under the source
// tree changes. It returns when ctx is cancelled or the credentials are rejected.
func (m *Module) Watch(ctx context.Context, apiKey string) error {
	pass := func(ctx context.Context) error {
		result, err := m.Push(ctx, apiKey)
		if err == nil {
			m.PrintSummary(result)
		}
		return err
	}

	if err := pass(ctx); err != nil {
		if goerrors.IsAuth(err) || errors.Is(err, context.Canceled) {
			return err
		}
		logging.WatchLogger(m.container.LoggerProvider()).Error("push.watch.pass_failed", "error", err)
	}
	return m.container.Watcher().Watch(ctx, pass)
}

// PrintSummary writes the totals of result to the status output.
func (m *Module) PrintSummary(result *SyncResult) {
	m.container.Printer().Summary(result)
}

// Preview validates the document at path and renders its body to HTML.
func (m *Module) Preview(path string) (*Preview, error) {
	if !markdown.ValidPath(path) {
		return nil, goerrors.Wrap(ErrNotMarkdown, goerrors.CategoryValidation, "cannot preview "+path).
			WithTextCode("PREVIEW_NOT_MARKDOWN")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.Wrap(errors.Join(push.ErrSourceRead, err), goerrors.CategoryInternal, "cannot read "+path)
	}
	doc, err := markdown.BuildDocument(path, raw)
	if err != nil {
		return nil, err
	}
	return markdown.RenderPreview(doc, m.container.Renderer())
}

// Close releases handler subscriptions and log files.
func (m *Module) Close() error {
	return m.container.Close()
}

// IsFatal reports whether err aborted a pass. Cancellation is treated as a
// clean stop.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
