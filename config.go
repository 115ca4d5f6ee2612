package devsync

import "github.com/goliatone/go-devsync/internal/runtimeconfig"

var (
	ErrSourceRequired         = runtimeconfig.ErrSourceRequired
	ErrBaseURLInvalid         = runtimeconfig.ErrBaseURLInvalid
	ErrPerPageInvalid         = runtimeconfig.ErrPerPageInvalid
	ErrRetryLimitInvalid      = runtimeconfig.ErrRetryLimitInvalid
	ErrRetryBackoffInvalid    = runtimeconfig.ErrRetryBackoffInvalid
	ErrTitleWidthInvalid      = runtimeconfig.ErrTitleWidthInvalid
	ErrWatchDebounceInvalid   = runtimeconfig.ErrWatchDebounceInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrLoggingFileProvider    = runtimeconfig.ErrLoggingFileProvider
	ErrMissingAPIKey          = runtimeconfig.ErrMissingAPIKey
)

type (
	Config        = runtimeconfig.Config
	APIConfig     = runtimeconfig.APIConfig
	RetryConfig   = runtimeconfig.RetryConfig
	DisplayConfig = runtimeconfig.DisplayConfig
	WatchConfig   = runtimeconfig.WatchConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
