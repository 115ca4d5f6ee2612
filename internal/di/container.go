package di

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-devsync/internal/commands"
	articlescmd "github.com/goliatone/go-devsync/internal/commands/articles"
	"github.com/goliatone/go-devsync/internal/devto"
	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/internal/logging/console"
	"github.com/goliatone/go-devsync/internal/logging/gologger"
	"github.com/goliatone/go-devsync/internal/markdown"
	"github.com/goliatone/go-devsync/internal/planner"
	"github.com/goliatone/go-devsync/internal/push"
	"github.com/goliatone/go-devsync/internal/runtimeconfig"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	closers        []io.Closer
	httpClient     *http.Client
	output         io.Writer

	client   *devto.Client
	planner  *planner.Planner
	executor *articlescmd.Executor
	printer  *push.StatusPrinter
	runner   *push.Runner
	renderer *markdown.Renderer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the HTTP client used for the Forem API.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Container) {
		c.httpClient = hc
	}
}

// WithOutput redirects status lines, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(c *Container) {
		c.output = w
	}
}

// NewContainer validates cfg and builds every collaborator of a sync run.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRemote(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configurePush()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		opts := console.Options{Writer: os.Stderr, MinLevel: &level}
		if path := strings.TrimSpace(logCfg.File); path != "" {
			opts.File = &console.FileOptions{
				Path:       path,
				MaxSizeMB:  logCfg.MaxSizeMB,
				MaxBackups: logCfg.MaxBackups,
			}
		}
		provider := console.NewProvider(opts)
		c.loggerProvider = provider
		c.closers = append(c.closers, provider)
	}

	logging.ModuleLogger(c.loggerProvider, "").Debug("logger.configured", "provider", logCfg.Provider, "log_level", logCfg.Level)
	return nil
}

func (c *Container) configureRemote() error {
	hc := c.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: c.Config.API.Timeout}
	}

	c.client = devto.NewClient(
		devto.WithBaseURL(c.Config.API.BaseURL),
		devto.WithPerPage(c.Config.API.PerPage),
		devto.WithHTTPClient(hc),
		devto.WithLogger(logging.RemoteLogger(c.loggerProvider)),
	)
	executor, err := articlescmd.NewExecutor(c.client, articlescmd.Config{
		MaxRetries:     c.Config.Retry.MaxRetries,
		AttemptTimeout: c.Config.Retry.AttemptTimeout,
		Backoff:        c.Config.Retry.Backoff,
		MaxBackoff:     c.Config.Retry.MaxBackoff,
	}, commands.CommandLogger(c.loggerProvider, "articles"))
	if err != nil {
		return err
	}
	c.executor = executor
	return nil
}

func (c *Container) configurePush() {
	syncLogger := logging.SyncLogger(c.loggerProvider)

	c.planner = planner.New(syncLogger)
	c.printer = push.NewStatusPrinter(c.output,
		push.WithNoColor(c.Config.Display.NoColor),
		push.WithTitleWidth(c.Config.Display.TitleWidth),
	)
	c.runner = push.NewRunner(c.client, c.executor,
		push.WithPlanner(c.planner),
		push.WithPrinter(c.printer),
		push.WithLogger(syncLogger),
	)
	c.renderer = markdown.NewRenderer()
}

// Watcher builds a watcher over the configured source tree.
func (c *Container) Watcher() *push.Watcher {
	return push.NewWatcher(c.Config.Source, c.Config.Watch.Debounce, logging.WatchLogger(c.loggerProvider))
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Client() *devto.Client {
	return c.client
}

func (c *Container) Executor() *articlescmd.Executor {
	return c.executor
}

func (c *Container) Printer() *push.StatusPrinter {
	return c.printer
}

func (c *Container) Runner() *push.Runner {
	return c.runner
}

func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// Close unsubscribes the command handlers and releases log files.
func (c *Container) Close() error {
	if c.executor != nil {
		c.executor.Close()
		c.executor = nil
	}
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
