package articlescmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-devsync/internal/commands"
	"github.com/goliatone/go-devsync/internal/devto"
	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

const (
	createOperation = "articles.create"
	updateOperation = "articles.update"
)

// Transport sends article payloads to the remote service. Errors are reserved
// for failures that produced no HTTP response.
type Transport interface {
	CreateArticle(ctx context.Context, apiKey, body string) (*devto.Response, error)
	UpdateArticle(ctx context.Context, id int, apiKey, body string) (*devto.Response, error)
}

var (
	_ command.Commander[CreateArticleCommand] = (*CreateArticleHandler)(nil)
	_ command.Commander[UpdateArticleCommand] = (*UpdateArticleHandler)(nil)
)

// CreateArticleHandler posts new articles. A transport error, including a
// per-attempt timeout, is returned as retryable; any HTTP status ends the attempt.
type CreateArticleHandler struct {
	inner *commands.Handler[CreateArticleCommand]
}

func NewCreateArticleHandler(transport Transport, logger interfaces.Logger, opts ...commands.HandlerOption[CreateArticleCommand]) *CreateArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CreateArticleCommand) error {
		result := ensureResult(msg.Result, interfaces.ActionCreate, 0)
		result.Attempts++

		resp, err := transport.CreateArticle(ctx, msg.APIKey, msg.Body)
		if err != nil {
			result.Err = err
			return attemptError(err)
		}
		record(baseLogger, result, resp, "Post was successful")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CreateArticleCommand]{
		commands.WithLogger[CreateArticleCommand](baseLogger),
		commands.WithOperation[CreateArticleCommand](createOperation),
		commands.WithMessageFields(func(msg CreateArticleCommand) map[string]any {
			return map[string]any{"body_bytes": len(msg.Body)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateArticleCommand].
func (h *CreateArticleHandler) Execute(ctx context.Context, msg CreateArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateArticleHandler replaces the markdown of existing articles.
type UpdateArticleHandler struct {
	inner *commands.Handler[UpdateArticleCommand]
}

func NewUpdateArticleHandler(transport Transport, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateArticleCommand]) *UpdateArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg UpdateArticleCommand) error {
		result := ensureResult(msg.Result, interfaces.ActionUpdate, msg.ID)
		result.Attempts++

		resp, err := transport.UpdateArticle(ctx, msg.ID, msg.APIKey, msg.Body)
		if err != nil {
			result.Err = err
			return attemptError(err)
		}
		record(logging.WithFields(baseLogger, map[string]any{"remote_id": msg.ID}), result, resp, "Update was successful")
		return nil
	}

	handlerOpts := []commands.HandlerOption[UpdateArticleCommand]{
		commands.WithLogger[UpdateArticleCommand](baseLogger),
		commands.WithOperation[UpdateArticleCommand](updateOperation),
		commands.WithMessageFields(func(msg UpdateArticleCommand) map[string]any {
			return map[string]any{"remote_id": msg.ID, "body_bytes": len(msg.Body)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UpdateArticleCommand].
func (h *UpdateArticleHandler) Execute(ctx context.Context, msg UpdateArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

func ensureResult(result *interfaces.UploadResult, action interfaces.Action, id int) *interfaces.UploadResult {
	if result == nil {
		result = &interfaces.UploadResult{}
	}
	result.Action = action
	result.RemoteID = id
	return result
}

// record stores the HTTP outcome. A rejected upload is logged with the remote
// status and body and is not retried.
func record(logger interfaces.Logger, result *interfaces.UploadResult, resp *devto.Response, success string) {
	result.StatusCode = resp.StatusCode
	result.Body = resp.Body
	result.Err = nil

	if resp.Success() {
		logger.Info("articles.upload.succeeded", "status", resp.StatusCode, "message", success)
		return
	}

	result.Err = rejectedError(resp.StatusCode, resp.Body)
	logger.Error("articles.upload.rejected",
		"status", resp.StatusCode,
		"body", strings.TrimSpace(resp.Body),
		"message", "Dev.to error",
	)
}
