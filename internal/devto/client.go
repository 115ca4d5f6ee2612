// Package devto talks to the Forem article API used by dev.to.
package devto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

const (
	// DefaultBaseURL is the public dev.to host.
	DefaultBaseURL = "https://dev.to"
	// DefaultPerPage is the page size requested from the article index.
	DefaultPerPage = 1000
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "api-key"
	acceptHeader = "application/vnd.forem.api-v1+json"
)

// Response is the raw outcome of a create or update request.
type Response struct {
	StatusCode int
	Body       string
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithBaseURL points the client at another Forem host.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithPerPage sets the page size of the article index request.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithLogger sets the logger used for request traces.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is a minimal Forem API client. It holds no credentials; the API key
// is passed on every call.
type Client struct {
	hc      *http.Client
	baseURL string
	perPage int
	logger  interfaces.Logger
}

var _ interfaces.ArticleIndex = (*Client)(nil)

// NewClient builds a Client with dev.to defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		perPage: DefaultPerPage,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ListArticles fetches the account's articles, drafts included. Only the first
// page is requested.
func (c *Client) ListArticles(ctx context.Context, apiKey string) (interfaces.RemoteIndex, error) {
	endpoint := c.baseURL + "/api/articles/me/all?" + url.Values{
		"per_page": []string{strconv.Itoa(c.perPage)},
	}.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, apiKey, nil)
	if err != nil {
		return nil, transportError(http.MethodGet, endpoint, err)
	}

	c.logger.Debug("devto.articles.list.start", "url", endpoint)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, transportError(http.MethodGet, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(http.MethodGet, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, authenticationError(endpoint, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, statusError(&HTTPError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	var index interfaces.RemoteIndex
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, decodeError(endpoint, err)
	}

	c.logger.Debug("devto.articles.list.complete", "count", len(index))
	return index, nil
}

// CreateArticle posts body as a new article. Only transport failures are
// returned as errors; any HTTP status is reported through Response.
func (c *Client) CreateArticle(ctx context.Context, apiKey, body string) (*Response, error) {
	return c.send(ctx, http.MethodPost, c.baseURL+"/api/articles", apiKey, body)
}

// UpdateArticle replaces the markdown of article id.
func (c *Client) UpdateArticle(ctx context.Context, id int, apiKey, body string) (*Response, error) {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/api/articles/%d", c.baseURL, id), apiKey, body)
}

type articlePayload struct {
	BodyMarkdown string `json:"body_markdown"`
}

func (c *Client) send(ctx context.Context, method, endpoint, apiKey, body string) (*Response, error) {
	payload, err := json.Marshal(articlePayload{BodyMarkdown: body})
	if err != nil {
		return nil, fmt.Errorf("devto: encode payload: %w", err)
	}

	req, err := c.newRequest(ctx, method, endpoint, apiKey, payload)
	if err != nil {
		return nil, transportError(method, endpoint, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, transportError(method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(method, endpoint, err)
	}

	c.logger.Debug("devto.articles.send.complete", "method", method, "url", endpoint, "status", resp.StatusCode)

	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint, apiKey string, payload []byte) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Accept", acceptHeader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
