package articlescmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-devsync/internal/devto"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Executors share the process wide dispatcher, so these tests do not run in
// parallel and always Close their executor.

type scriptedTransport struct {
	failures  int
	status    int
	body      string
	creates   []string
	updates   []int
	transport error
}

func (s *scriptedTransport) next() (*devto.Response, error) {
	if s.failures > 0 {
		s.failures--
		return nil, s.transport
	}
	return &devto.Response{StatusCode: s.status, Body: s.body}, nil
}

func (s *scriptedTransport) CreateArticle(_ context.Context, _ string, body string) (*devto.Response, error) {
	s.creates = append(s.creates, body)
	return s.next()
}

func (s *scriptedTransport) UpdateArticle(_ context.Context, id int, _ string, _ string) (*devto.Response, error) {
	s.updates = append(s.updates, id)
	return s.next()
}

func mustExecutor(t *testing.T, transport Transport, cfg Config, logger interfaces.Logger) *Executor {
	t.Helper()
	exec, err := NewExecutor(transport, cfg, logger)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	t.Cleanup(exec.Close)
	return exec
}

func newTransport(failures, status int) *scriptedTransport {
	return &scriptedTransport{
		failures:  failures,
		status:    status,
		body:      `{"id":1}`,
		transport: devto.ErrTransport,
	}
}

func TestExecutorCreateSucceeds(t *testing.T) {
	transport := newTransport(0, http.StatusCreated)
	exec := mustExecutor(t, transport, Config{MaxRetries: DefaultMaxRetries}, nil)

	result := exec.Create(context.Background(), "key", "---\ntitle: Foo\n---\nHello")

	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Action != interfaces.ActionCreate || result.Attempts != 1 || result.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(transport.creates) != 1 || transport.creates[0] != "---\ntitle: Foo\n---\nHello" {
		t.Fatalf("expected raw body to be sent once, got %v", transport.creates)
	}
}

func TestExecutorRetriesTransportFailuresWithinBound(t *testing.T) {
	transport := newTransport(2, http.StatusOK)
	exec := mustExecutor(t, transport, Config{MaxRetries: 3}, nil)

	result := exec.Update(context.Background(), 42, "key", "body")

	if !result.Succeeded() {
		t.Fatalf("expected success after retries, got %+v", result)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", result.Attempts)
	}
	if result.RemoteID != 42 || result.Action != interfaces.ActionUpdate {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(transport.updates) != 3 {
		t.Fatalf("expected 3 update calls, got %v", transport.updates)
	}
}

func TestExecutorExhaustedRetriesAreNonFatal(t *testing.T) {
	transport := newTransport(100, http.StatusOK)
	exec := mustExecutor(t, transport, Config{MaxRetries: 2}, nil)

	result := exec.Create(context.Background(), "key", "body")

	if result.Succeeded() {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d", result.Attempts)
	}
	if !errors.Is(result.Err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", result.Err)
	}
	if !errors.Is(result.Err, devto.ErrTransport) {
		t.Fatalf("expected transport cause to be kept, got %v", result.Err)
	}
}

func TestExecutorDoesNotRetryRejectedUploads(t *testing.T) {
	transport := newTransport(0, http.StatusUnprocessableEntity)
	transport.body = `{"error":"Title has already been used"}`
	exec := mustExecutor(t, transport, Config{MaxRetries: 3}, nil)

	result := exec.Create(context.Background(), "key", "body")

	if result.Attempts != 1 || len(transport.creates) != 1 {
		t.Fatalf("expected a single attempt, got %d", result.Attempts)
	}
	if result.StatusCode != http.StatusUnprocessableEntity || result.Body != transport.body {
		t.Fatalf("expected status and body to be recorded, got %+v", result)
	}
	if !errors.Is(result.Err, ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got %v", result.Err)
	}
}

func TestExecutorRejectsInvalidCommands(t *testing.T) {
	transport := newTransport(0, http.StatusOK)
	exec := mustExecutor(t, transport, Config{}, nil)

	result := exec.Update(context.Background(), 0, "key", "body")
	if result.Err == nil {
		t.Fatalf("expected validation failure")
	}
	if len(transport.updates) != 0 {
		t.Fatalf("expected no remote call, got %v", transport.updates)
	}
}

func TestExecutorRetriesAttemptsThatTimeOut(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":5}`)
	}))
	defer server.Close()

	client := devto.NewClient(devto.WithBaseURL(server.URL))
	exec := mustExecutor(t, client, Config{MaxRetries: 3, AttemptTimeout: 50 * time.Millisecond}, nil)

	result := exec.Create(context.Background(), "key", "body")

	if !result.Succeeded() {
		t.Fatalf("expected success after timed out attempts, got %+v", result)
	}
	if result.Attempts != 3 || hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got attempts=%d hits=%d", result.Attempts, hits.Load())
	}
}

func TestExecutorBacksOffBetweenRetries(t *testing.T) {
	transport := newTransport(100, http.StatusOK)
	exec := mustExecutor(t, transport, Config{MaxRetries: 2, Backoff: 20 * time.Millisecond, MaxBackoff: time.Second}, nil)

	started := time.Now()
	result := exec.Create(context.Background(), "key", "body")
	elapsed := time.Since(started)

	if result.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", result.Attempts)
	}
	// 20ms before the first retry, 40ms before the second.
	if elapsed < 60*time.Millisecond {
		t.Fatalf("expected exponential backoff of at least 60ms, got %s", elapsed)
	}
}

func TestExecutorDoesNotRetryCancellation(t *testing.T) {
	transport := newTransport(100, http.StatusOK)
	transport.transport = context.Canceled
	exec := mustExecutor(t, transport, Config{MaxRetries: 3}, nil)

	result := exec.Update(context.Background(), 9, "key", "body")

	if result.Attempts != 1 || len(transport.updates) != 1 {
		t.Fatalf("expected a single attempt, got %d", result.Attempts)
	}
	if !errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, ErrRetriesExhausted) {
		t.Fatalf("expected cancellation without exhaustion, got %v", result.Err)
	}
}

func TestExecutorLogsFailedAttemptsThroughLogger(t *testing.T) {
	logger := newCaptureLogger()
	transport := newTransport(1, http.StatusCreated)
	exec := mustExecutor(t, transport, Config{MaxRetries: 1}, logger)

	if result := exec.Create(context.Background(), "key", "body"); !result.Succeeded() {
		t.Fatalf("expected success on retry, got %+v", result)
	}

	entry, ok := logger.find("articles.upload.attempt_failed")
	if !ok || entry.level != "warn" {
		t.Fatalf("expected warn entry for the failed attempt, got %+v", *logger.entries)
	}
	if err, _ := argValue(entry.args, "error").(error); !errors.Is(err, devto.ErrTransport) {
		t.Fatalf("expected transport cause in log, got %v", entry.args)
	}
}

func TestExecutorRefusesSecondOpenExecutor(t *testing.T) {
	first, err := NewExecutor(newTransport(0, http.StatusOK), Config{}, nil)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}

	_, err = NewExecutor(newTransport(0, http.StatusOK), Config{}, nil)
	if !errors.Is(err, ErrExecutorOpen) || !goerrors.IsInternal(err) {
		t.Fatalf("expected ErrExecutorOpen, got %v", err)
	}

	first.Close()
	first.Close()

	second, err := NewExecutor(newTransport(0, http.StatusOK), Config{}, nil)
	if err != nil {
		t.Fatalf("expected a new executor after Close, got %v", err)
	}
	second.Close()
}
