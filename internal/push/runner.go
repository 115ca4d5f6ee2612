// Package push runs sync passes: it fetches the remote index, walks the source
// tree, classifies each document and uploads what changed.
package push

import (
	"context"
	"errors"
	"io/fs"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/internal/markdown"
	"github.com/goliatone/go-devsync/internal/planner"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// ErrSourceRead indicates the source tree or one of its files could not be read.
var ErrSourceRead = errors.New("push: source read failed")

const textCodeSourceRead = "SOURCE_READ_FAILED"

// DefaultSource is walked when Options.Source is empty.
const DefaultSource = "."

// Options controls a single pass.
type Options struct {
	Source string
	DryRun bool
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithPlanner overrides the planner.
func WithPlanner(p *planner.Planner) RunnerOption {
	return func(r *Runner) {
		if p != nil {
			r.planner = p
		}
	}
}

// WithPrinter overrides the status printer.
func WithPrinter(p *StatusPrinter) RunnerOption {
	return func(r *Runner) {
		if p != nil {
			r.printer = p
		}
	}
}

// WithLogger sets the run logger.
func WithLogger(logger interfaces.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logging.Ensure(logger)
	}
}

// WithFileSystem replaces the filesystem opened for a source directory.
func WithFileSystem(open func(source string) fs.FS) RunnerOption {
	return func(r *Runner) {
		if open != nil {
			r.openFS = open
		}
	}
}

// Runner executes sync passes. It holds no per-run state and may be reused.
type Runner struct {
	index    interfaces.ArticleIndex
	uploader interfaces.ArticleUploader
	planner  *planner.Planner
	printer  *StatusPrinter
	logger   interfaces.Logger
	openFS   func(source string) fs.FS
}

// NewRunner builds a Runner over the given remote collaborators.
func NewRunner(index interfaces.ArticleIndex, uploader interfaces.ArticleUploader, opts ...RunnerOption) *Runner {
	r := &Runner{
		index:    index,
		uploader: uploader,
		logger:   logging.NoOp(),
		openFS:   func(source string) fs.FS { return os.DirFS(source) },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.planner == nil {
		r.planner = planner.New(r.logger)
	}
	if r.printer == nil {
		r.printer = NewStatusPrinter(nil)
	}
	return r
}

// Printer exposes the status printer used for document lines.
func (r *Runner) Printer() *StatusPrinter {
	return r.printer
}

// Run performs one pass. Fetch, read and frontmatter failures abort the pass
// and are returned together with the partial result; rejected or exhausted
// uploads are only recorded.
func (r *Runner) Run(ctx context.Context, apiKey string, opts Options) (*interfaces.SyncResult, error) {
	source := opts.Source
	if source == "" {
		source = DefaultSource
	}

	result := &interfaces.SyncResult{RunID: uuid.NewString(), DryRun: opts.DryRun}
	ctx = logging.ContextWithFields(ctx, map[string]any{"run_id": result.RunID})
	logger := r.logger.WithContext(ctx)
	logger.Info("push.run.start", "source", source, "dry_run", opts.DryRun)

	index, err := r.index.ListArticles(ctx, apiKey)
	if err != nil {
		logger.Error("push.index.failed", "error", err)
		return result, err
	}
	logger.Debug("push.index.fetched", "articles", len(index))

	loader := markdown.NewLoader(r.openFS(source), markdown.LoaderConfig{BasePath: source})
	paths, err := loader.Discover(ctx)
	if err != nil {
		err = sourceError(source, err)
		logger.Error("push.source.failed", "error", err)
		return result, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		file, err := r.process(ctx, loader, apiKey, path, index, opts.DryRun)
		if err != nil {
			logging.WithDocumentContext(logger, path, "", "").Error("push.file.failed", "error", err)
			return result, err
		}
		tally(result, file, opts.DryRun)
		result.Files = append(result.Files, file)
	}

	logger.Info("push.run.complete",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (r *Runner) process(ctx context.Context, loader *markdown.Loader, apiKey, path string, index interfaces.RemoteIndex, dryRun bool) (interfaces.FileResult, error) {
	raw, err := loader.Read(path)
	if err != nil {
		return interfaces.FileResult{Path: path}, sourceError(path, err)
	}

	doc, err := markdown.BuildDocument(path, raw)
	if err != nil {
		return interfaces.FileResult{Path: path}, err
	}

	decision := r.planner.Classify(doc, index)
	r.printer.Document(doc, decision)

	file := interfaces.FileResult{Path: path, Title: doc.FrontMatter.Title, Decision: decision}
	if dryRun || decision.Action == interfaces.ActionNoOp {
		return file, nil
	}

	var upload interfaces.UploadResult
	switch decision.Action {
	case interfaces.ActionCreate:
		upload = r.uploader.Create(ctx, apiKey, string(doc.Raw))
	case interfaces.ActionUpdate:
		upload = r.uploader.Update(ctx, decision.RemoteID, apiKey, string(doc.Raw))
	}
	r.printer.Upload(upload)
	file.Upload = &upload
	return file, nil
}

func tally(result *interfaces.SyncResult, file interfaces.FileResult, dryRun bool) {
	if file.Decision.Action == interfaces.ActionNoOp {
		result.Skipped++
		return
	}
	if !dryRun && (file.Upload == nil || file.Upload.Err != nil) {
		result.Failed++
		return
	}
	switch file.Decision.Action {
	case interfaces.ActionCreate:
		result.Created++
	case interfaces.ActionUpdate:
		result.Updated++
	}
}

func sourceError(location string, cause error) error {
	return goerrors.Wrap(errors.Join(ErrSourceRead, cause), goerrors.CategoryInternal, "cannot read "+location).
		WithTextCode(textCodeSourceRead).
		WithMetadata(map[string]any{"path": location})
}
