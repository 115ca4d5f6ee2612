// Package articlescmd applies create and update decisions through the
// go-command dispatcher, retrying transport failures.
package articlescmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-devsync/internal/commands"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// DefaultMaxRetries is the number of retries after the first attempt.
const DefaultMaxRetries = 3

// Config tunes the executor.
type Config struct {
	// MaxRetries bounds retries after the first attempt. Negative disables retries.
	MaxRetries int
	// AttemptTimeout bounds each attempt. Zero keeps the handler default.
	AttemptTimeout time.Duration
	// Backoff is the delay before the first retry, doubled for each further
	// retry and capped by MaxBackoff. Zero retries immediately.
	Backoff    time.Duration
	MaxBackoff time.Duration
}

func (cfg Config) retryStrategy() runner.RetryStrategy {
	if cfg.Backoff <= 0 {
		return runner.NoDelayStrategy{}
	}
	return runner.ExponentialBackoffStrategy{
		Base:   cfg.Backoff,
		Factor: 2,
		Max:    cfg.MaxBackoff,
	}
}

var (
	openMu     sync.Mutex
	executorUp bool
)

type subscription interface {
	Unsubscribe()
}

// Executor subscribes the article handlers to the dispatcher and exposes a
// synchronous API to the run orchestrator. The dispatcher registry is process
// wide, so only one Executor may be open at a time.
type Executor struct {
	logger interfaces.Logger
	subs   []subscription
}

var _ interfaces.ArticleUploader = (*Executor)(nil)

// NewExecutor subscribes create and update handlers bound to transport. It
// fails with ErrExecutorOpen while another executor has not been closed.
func NewExecutor(transport Transport, cfg Config, logger interfaces.Logger) (*Executor, error) {
	openMu.Lock()
	defer openMu.Unlock()
	if executorUp {
		return nil, executorOpenError()
	}

	logger = commands.EnsureLogger(logger)
	runnerOpts := []runner.Option{
		runner.WithMaxRetries(max(cfg.MaxRetries, 0)),
		runner.WithRetryStrategy(cfg.retryStrategy()),
		runner.WithErrorHandler(func(err error) {
			logger.Warn("articles.upload.attempt_failed", "error", err)
		}),
		runner.WithLogger(runnerLogger{logger: logger}),
	}

	var createOpts []commands.HandlerOption[CreateArticleCommand]
	var updateOpts []commands.HandlerOption[UpdateArticleCommand]
	if cfg.AttemptTimeout > 0 {
		createOpts = append(createOpts, commands.WithTimeout[CreateArticleCommand](cfg.AttemptTimeout))
		updateOpts = append(updateOpts, commands.WithTimeout[UpdateArticleCommand](cfg.AttemptTimeout))
	}

	create := NewCreateArticleHandler(transport, logger, createOpts...)
	update := NewUpdateArticleHandler(transport, logger, updateOpts...)

	executorUp = true
	return &Executor{
		logger: logger,
		subs: []subscription{
			dispatcher.SubscribeCommand(create, runnerOpts...),
			dispatcher.SubscribeCommand(update, runnerOpts...),
		},
	}, nil
}

// Create posts body as a new article and waits for the outcome.
func (e *Executor) Create(ctx context.Context, apiKey, body string) interfaces.UploadResult {
	result := &interfaces.UploadResult{Action: interfaces.ActionCreate}
	err := dispatcher.Dispatch(commands.EnsureContext(ctx), CreateArticleCommand{
		APIKey: apiKey,
		Body:   body,
		Result: result,
	})
	return e.finish(result, err)
}

// Update replaces the markdown of article id and waits for the outcome.
func (e *Executor) Update(ctx context.Context, id int, apiKey, body string) interfaces.UploadResult {
	result := &interfaces.UploadResult{Action: interfaces.ActionUpdate, RemoteID: id}
	err := dispatcher.Dispatch(commands.EnsureContext(ctx), UpdateArticleCommand{
		ID:     id,
		APIKey: apiKey,
		Body:   body,
		Result: result,
	})
	return e.finish(result, err)
}

// finish converts a dispatch failure into a non-fatal result error.
func (e *Executor) finish(result *interfaces.UploadResult, err error) interfaces.UploadResult {
	if err == nil {
		return *result
	}
	if result.Attempts == 0 || errors.Is(err, context.Canceled) {
		result.Err = err
	} else {
		result.Err = exhaustedError(result.Attempts, err)
	}
	e.logger.Error("articles.upload.failed",
		"action", result.Action.String(),
		"remote_id", result.RemoteID,
		"attempts", result.Attempts,
		"error", err,
	)
	return *result
}

// Close unsubscribes the handlers. It is safe to call more than once.
func (e *Executor) Close() {
	openMu.Lock()
	defer openMu.Unlock()
	if e.subs == nil {
		return
	}
	for _, sub := range e.subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	e.subs = nil
	executorUp = false
}

// runnerLogger routes the runner's printf style messages to the executor
// logger at debug level; failures already reach the error handler.
type runnerLogger struct {
	logger interfaces.Logger
}

func (l runnerLogger) Info(format string, args ...any) {
	l.logger.Debug("articles.runner", "detail", fmt.Sprintf(format, args...))
}

func (l runnerLogger) Error(format string, args ...any) {
	l.logger.Debug("articles.runner", "detail", fmt.Sprintf(format, args...))
}
