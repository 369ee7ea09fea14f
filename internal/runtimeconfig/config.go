package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("portfolio config: content directory is required")
var ErrContentPatternInvalid = errors.New("portfolio config: content pattern is invalid")
var ErrContentWorkersInvalid = errors.New("portfolio config: content workers must be zero or positive")
var ErrMarkdownExtensionUnknown = errors.New("portfolio config: markdown extension is unknown")
var ErrHTTPBasePathInvalid = errors.New("portfolio config: http base path must start with '/'")
var ErrHTTPTimeoutInvalid = errors.New("portfolio config: http timeouts must be zero or positive")
var ErrWatchDebounceInvalid = errors.New("portfolio config: watch debounce must be positive when watching is enabled")
var ErrExportOutputDirRequired = errors.New("portfolio config: export output directory is required")
var ErrLoggingProviderUnknown = errors.New("portfolio config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("portfolio config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("portfolio config: logging format is invalid")

// Config aggregates every runtime option of the portfolio module. Field tags
// match the keys accepted in YAML files and PORTFOLIO_* environment variables.
type Config struct {
	Content  ContentConfig  `mapstructure:"content"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ContentConfig locates the project files.
type ContentConfig struct {
	Dir         string `mapstructure:"dir"`
	Pattern     string `mapstructure:"pattern"`
	Workers     int    `mapstructure:"workers"`
	StrictSlugs bool   `mapstructure:"strict_slugs"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// HTTPConfig controls the read API and the serve command.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	IncludeBody     bool          `mapstructure:"include_body"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WatchConfig enables the snapshot cache and its filesystem watcher.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// ExportConfig captures defaults for the static JSON export.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Indent    bool   `mapstructure:"indent"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the defaults used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:     "content/projects",
			Pattern: "*.md",
			Workers: 0,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm", "linkify", "tasklist"},
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			IncludeBody:     true,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 250 * time.Millisecond,
		},
		Export: ExportConfig{
			OutputDir: "dist/api",
			Indent:    true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks. isKnownExtension is optional; when
// nil markdown extension names are not checked.
func (cfg Config) Validate() error {
	return cfg.validate(nil)
}

// ValidateWith is Validate with a markdown extension check.
func (cfg Config) ValidateWith(isKnownExtension func(string) bool) error {
	return cfg.validate(isKnownExtension)
}

func (cfg Config) validate(isKnownExtension func(string) bool) error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Content.Pattern); pattern != "" {
		if strings.ContainsAny(pattern, `/\`) {
			return fmt.Errorf("%w: %s", ErrContentPatternInvalid, pattern)
		}
		if _, err := path.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("%w: %s", ErrContentPatternInvalid, pattern)
		}
	}
	if cfg.Content.Workers < 0 {
		return ErrContentWorkersInvalid
	}
	if isKnownExtension != nil {
		for _, ext := range cfg.Markdown.Extensions {
			if strings.TrimSpace(ext) == "" {
				continue
			}
			if !isKnownExtension(ext) {
				return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
			}
		}
	}
	if base := strings.TrimSpace(cfg.HTTP.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %s", ErrHTTPBasePathInvalid, base)
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.ShutdownTimeout < 0 {
		return ErrHTTPTimeoutInvalid
	}
	if cfg.Watch.Enabled && cfg.Watch.Debounce <= 0 {
		return ErrWatchDebounceInvalid
	}
	if strings.TrimSpace(cfg.Export.OutputDir) == "" {
		return ErrExportOutputDirRequired
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
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
