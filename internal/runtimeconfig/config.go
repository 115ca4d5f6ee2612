package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrSourceRequired         = errors.New("devsync config: source directory is required")
	ErrBaseURLInvalid         = errors.New("devsync config: api base url must be an absolute http(s) url")
	ErrPerPageInvalid         = errors.New("devsync config: api per_page must be positive")
	ErrRetryLimitInvalid      = errors.New("devsync config: retry max_retries must be zero or positive")
	ErrRetryBackoffInvalid    = errors.New("devsync config: retry backoff must be zero or positive and not above max_backoff")
	ErrTitleWidthInvalid      = errors.New("devsync config: display title_width must be positive")
	ErrWatchDebounceInvalid   = errors.New("devsync config: watch debounce must be positive when watch is enabled")
	ErrLoggingProviderUnknown = errors.New("devsync config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("devsync config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("devsync config: logging format is invalid")
	ErrLoggingFileProvider    = errors.New("devsync config: logging file output requires the console provider")
)

// Config aggregates the runtime settings of a sync run. The API key is not
// part of it; callers pass the credential to each run.
type Config struct {
	Source  string
	DryRun  bool
	API     APIConfig
	Retry   RetryConfig
	Display DisplayConfig
	Watch   WatchConfig
	Logging LoggingConfig
}

// APIConfig describes the remote Forem endpoint.
type APIConfig struct {
	BaseURL string
	PerPage int
	Timeout time.Duration
}

// RetryConfig bounds create and update retries. Backoff is the delay before
// the first retry; it doubles per retry up to MaxBackoff. Zero retries at once.
type RetryConfig struct {
	MaxRetries     int
	AttemptTimeout time.Duration
	Backoff        time.Duration
	MaxBackoff     time.Duration
}

// DisplayConfig controls the per-file status lines.
type DisplayConfig struct {
	TitleWidth int
	NoColor    bool
}

// WatchConfig controls the re-run on change mode.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// LoggingConfig captures provider specific logging options.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
	// File routes console provider output to a rotated file.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Source: ".",
		API: APIConfig{
			BaseURL: "https://dev.to",
			PerPage: 1000,
			Timeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			AttemptTimeout: 30 * time.Second,
			Backoff:        100 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
		},
		Display: DisplayConfig{
			TitleWidth: 50,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider:   "console",
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Source) == "" {
		return ErrSourceRequired
	}

	parsed, err := url.Parse(strings.TrimSpace(cfg.API.BaseURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrBaseURLInvalid, cfg.API.BaseURL)
	}
	if cfg.API.PerPage <= 0 {
		return ErrPerPageInvalid
	}
	if cfg.Retry.MaxRetries < 0 {
		return ErrRetryLimitInvalid
	}
	if cfg.Retry.Backoff < 0 || cfg.Retry.MaxBackoff < 0 ||
		(cfg.Retry.MaxBackoff > 0 && cfg.Retry.Backoff > cfg.Retry.MaxBackoff) {
		return ErrRetryBackoffInvalid
	}
	if cfg.Display.TitleWidth <= 0 {
		return ErrTitleWidthInvalid
	}
	if cfg.Watch.Enabled && cfg.Watch.Debounce <= 0 {
		return ErrWatchDebounceInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
		if strings.TrimSpace(cfg.Logging.File) != "" {
			return ErrLoggingFileProvider
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return "console"
	}
	return p
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
