package portfolio

import "github.com/goliatone/go-portfolio/internal/runtimeconfig"

var (
	ErrContentDirRequired       = runtimeconfig.ErrContentDirRequired
	ErrContentPatternInvalid    = runtimeconfig.ErrContentPatternInvalid
	ErrContentWorkersInvalid    = runtimeconfig.ErrContentWorkersInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrHTTPBasePathInvalid      = runtimeconfig.ErrHTTPBasePathInvalid
	ErrHTTPTimeoutInvalid       = runtimeconfig.ErrHTTPTimeoutInvalid
	ErrWatchDebounceInvalid     = runtimeconfig.ErrWatchDebounceInvalid
	ErrExportOutputDirRequired  = runtimeconfig.ErrExportOutputDirRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	ContentConfig  = runtimeconfig.ContentConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
	WatchConfig    = runtimeconfig.WatchConfig
	ExportConfig   = runtimeconfig.ExportConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, an optional YAML file and PORTFOLIO_*
// environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
