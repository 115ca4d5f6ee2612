package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-devsync"
	"github.com/goliatone/go-devsync/internal/di"
	"github.com/goliatone/go-devsync/internal/runtimeconfig"
)

// syncModule is the subset of *devsync.Module driven by the CLI.
type syncModule interface {
	Push(ctx context.Context, apiKey string) (*devsync.SyncResult, error)
	Watch(ctx context.Context, apiKey string) error
	Preview(path string) (*devsync.Preview, error)
	PrintSummary(result *devsync.SyncResult)
	Close() error
}

var moduleBuilder = func(cfg devsync.Config, opts ...di.Option) (syncModule, error) {
	return devsync.New(cfg, opts...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and maps the outcome to an exit code: 1 when a pass
// was aborted, 0 otherwise, including passes with rejected uploads.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil || !devsync.IsFatal(err) {
		return 0
	}
	fmt.Fprintf(stderr, "devsync: %v\n", err)
	if errors.Is(err, runtimeconfig.ErrMissingAPIKey) {
		fmt.Fprintf(stderr, "set DEVTO_API_KEY or pass --api-key; keys are issued at %s\n", runtimeconfig.APIKeyHint)
	} else if goerrors.IsAuth(err) {
		fmt.Fprintf(stderr, "check your API key at %s\n", runtimeconfig.APIKeyHint)
	}
	return 1
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "devsync",
		Short:         "Push a directory of markdown articles to dev.to",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPush(cmd.Context(), v, stdout)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("source", "s", ".", "Directory to search for markdown files")
	flags.BoolP("dryrun", "d", false, "Classify articles without uploading")
	flags.BoolP("watch", "w", false, "Rerun after markdown files change")
	flags.String("api-key", "", "dev.to API key (defaults to DEVTO_API_KEY)")
	flags.String("config", "", "Config file (defaults to ./.devsync.yaml)")
	flags.String("base-url", "", "Forem host, e.g. https://dev.to")
	flags.String("log-provider", "", "Logger provider: console or gologger")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "go-logger format: console, json or pretty")
	flags.String("log-file", "", "Write console logs to a rotated file")
	flags.Bool("no-color", false, "Disable coloured status lines")

	bindings := map[string]string{
		"source":       "source",
		"dryrun":       "dryrun",
		"watch":        "watch.enabled",
		"api-key":      runtimeconfig.KeyAPIKey,
		"config":       runtimeconfig.KeyConfigFile,
		"base-url":     "api.base_url",
		"log-provider": "logging.provider",
		"log-level":    "logging.level",
		"log-format":   "logging.format",
		"log-file":     "logging.file",
		"no-color":     "display.no_color",
	}
	for flag, key := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newPreviewCommand(v, stdout))
	return root
}

func runPush(ctx context.Context, v *viper.Viper, stdout io.Writer) error {
	cfg, err := runtimeconfig.Load(v)
	if err != nil {
		return err
	}
	apiKey, err := runtimeconfig.APIKey(v)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(cfg, di.WithOutput(stdout))
	if err != nil {
		return err
	}
	defer module.Close()

	if cfg.Watch.Enabled {
		return module.Watch(ctx, apiKey)
	}

	result, err := module.Push(ctx, apiKey)
	if err != nil {
		return err
	}
	module.PrintSummary(result)
	return nil
}
