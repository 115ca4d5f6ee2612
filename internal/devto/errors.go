package devto

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrAuthentication indicates the API key was rejected by the article index.
	ErrAuthentication = errors.New("devto: bad or invalid API key")
	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("devto: transport failure")
	// ErrDecode indicates the response body could not be decoded.
	ErrDecode = errors.New("devto: response decode failed")
)

const (
	textCodeAuthentication = "DEVTO_AUTHENTICATION_FAILED"
	textCodeTransport      = "DEVTO_TRANSPORT_FAILED"
	textCodeDecode         = "DEVTO_DECODE_FAILED"
	textCodeHTTPStatus     = "DEVTO_HTTP_STATUS"
)

// HTTPError reports a non-success status returned by the remote service.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

func authenticationError(url string, status int) error {
	return goerrors.Wrap(ErrAuthentication, goerrors.CategoryAuth, "article index rejected credentials").
		WithTextCode(textCodeAuthentication).
		WithCode(status).
		WithMetadata(map[string]any{"url": url, "hint": "https://dev.to/settings/account"})
}

func transportError(method, url string, cause error) error {
	return goerrors.Wrap(errors.Join(ErrTransport, cause), goerrors.CategoryExternal, method+" "+url).
		WithTextCode(textCodeTransport).
		WithMetadata(map[string]any{"url": url, "method": method})
}

func decodeError(url string, cause error) error {
	return goerrors.Wrap(errors.Join(ErrDecode, cause), goerrors.CategoryBadInput, "decode article index").
		WithTextCode(textCodeDecode).
		WithMetadata(map[string]any{"url": url})
}

func statusError(httpErr *HTTPError) error {
	return goerrors.Wrap(httpErr, goerrors.CategoryExternal, "article index request failed").
		WithTextCode(textCodeHTTPStatus).
		WithCode(httpErr.StatusCode).
		WithMetadata(map[string]any{"url": httpErr.URL})
}
