package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix scopes environment overrides, e.g. DEVTO_SOURCE.
	EnvPrefix = "DEVTO"
	// ConfigName is the optional project file looked up in the working directory.
	ConfigName = ".devsync"
	// APIKeyHint points users at the page where keys are issued.
	APIKeyHint = "https://dev.to/settings/account"

	KeyConfigFile = "config"
	KeyAPIKey     = "api_key"
)

// ErrMissingAPIKey is returned when no credential was supplied.
var ErrMissingAPIKey = errors.New("devsync config: missing DEVTO_API_KEY")

// Load builds a Config from v. Values resolve from bound flags, DEVTO_*
// environment variables, an optional .devsync.yaml (or the file named by the
// "config" key) and finally DefaultConfig.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString(KeyConfigFile)); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("devsync config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		Source: v.GetString("source"),
		DryRun: v.GetBool("dryrun"),
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			PerPage: v.GetInt("api.per_page"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Retry: RetryConfig{
			MaxRetries:     v.GetInt("retry.max_retries"),
			AttemptTimeout: v.GetDuration("retry.attempt_timeout"),
			Backoff:        v.GetDuration("retry.backoff"),
			MaxBackoff:     v.GetDuration("retry.max_backoff"),
		},
		Display: DisplayConfig{
			TitleWidth: v.GetInt("display.title_width"),
			NoColor:    v.GetBool("display.no_color"),
		},
		Watch: WatchConfig{
			Enabled:  v.GetBool("watch.enabled"),
			Debounce: v.GetDuration("watch.debounce"),
		},
		Logging: LoggingConfig{
			Provider:   v.GetString("logging.provider"),
			Level:      v.GetString("logging.level"),
			Format:     v.GetString("logging.format"),
			AddSource:  v.GetBool("logging.add_source"),
			Focus:      v.GetStringSlice("logging.focus"),
			File:       v.GetString("logging.file"),
			MaxSizeMB:  v.GetInt("logging.max_size_mb"),
			MaxBackups: v.GetInt("logging.max_backups"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// APIKey returns the credential from the "api_key" key (DEVTO_API_KEY or a
// bound --api-key flag).
func APIKey(v *viper.Viper) (string, error) {
	if v == nil {
		v = viper.New()
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}
	key := strings.TrimSpace(v.GetString(KeyAPIKey))
	if key == "" {
		return "", MissingAPIKeyError()
	}
	return key, nil
}

// MissingAPIKeyError wraps ErrMissingAPIKey with the auth category and a hint
// to the key settings page.
func MissingAPIKeyError() error {
	return goerrors.Wrap(ErrMissingAPIKey, goerrors.CategoryAuth, "no API key configured").
		WithTextCode("DEVTO_API_KEY_MISSING").
		WithMetadata(map[string]any{"hint": APIKeyHint})
}

func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("source", cfg.Source)
	v.SetDefault("dryrun", cfg.DryRun)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.per_page", cfg.API.PerPage)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("retry.max_retries", cfg.Retry.MaxRetries)
	v.SetDefault("retry.attempt_timeout", cfg.Retry.AttemptTimeout)
	v.SetDefault("retry.backoff", cfg.Retry.Backoff)
	v.SetDefault("retry.max_backoff", cfg.Retry.MaxBackoff)
	v.SetDefault("display.title_width", cfg.Display.TitleWidth)
	v.SetDefault("display.no_color", cfg.Display.NoColor)
	v.SetDefault("watch.enabled", cfg.Watch.Enabled)
	v.SetDefault("watch.debounce", cfg.Watch.Debounce)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}
