package articlescmd

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrUploadRejected indicates the remote answered with a non-success status.
	ErrUploadRejected = errors.New("articles: upload rejected")
	// ErrRetriesExhausted indicates every attempt failed without a response.
	ErrRetriesExhausted = errors.New("articles: retries exhausted")
	// ErrExecutorOpen is returned when a second executor would subscribe to
	// the process wide dispatcher.
	ErrExecutorOpen = errors.New("articles: an executor is already open")
)

const (
	textCodeUploadRejected   = "ARTICLE_UPLOAD_REJECTED"
	textCodeRetriesExhausted = "ARTICLE_UPLOAD_RETRIES_EXHAUSTED"
	textCodeAttemptFailed    = "ARTICLE_UPLOAD_ATTEMPT_FAILED"
	textCodeExecutorOpen     = "ARTICLE_EXECUTOR_OPEN"
)

func rejectedError(status int, body string) error {
	return goerrors.Wrap(ErrUploadRejected, goerrors.CategoryExternal, fmt.Sprintf("Dev.to error %d %s", status, body)).
		WithTextCode(textCodeUploadRejected).
		WithCode(status)
}

// exhaustedError keeps the sentinel and the dispatch failure as separate
// branches; Wrap would replace the sentinel with a clone of a go-errors cause.
func exhaustedError(attempts int, cause error) error {
	sentinel := goerrors.Wrap(ErrRetriesExhausted, goerrors.CategoryExternal, fmt.Sprintf("article upload failed after %d attempts", attempts)).
		WithTextCode(textCodeRetriesExhausted).
		WithMetadata(map[string]any{"attempts": attempts})
	return errors.Join(sentinel, cause)
}

// attemptError marks a failed request as retryable for the dispatcher runner,
// which otherwise treats a per-attempt deadline as permanent. Cancellation of
// the caller is returned unchanged so the run stops.
func attemptError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return goerrors.WrapRetryable(err, goerrors.CategoryExternal, "article upload attempt failed").
		WithTextCode(textCodeAttemptFailed)
}

func executorOpenError() error {
	return goerrors.Wrap(ErrExecutorOpen, goerrors.CategoryInternal, "close the running sync module first").
		WithTextCode(textCodeExecutorOpen)
}
