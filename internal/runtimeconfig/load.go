package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PORTFOLIO_CONTENT_DIR.
const EnvPrefix = "PORTFOLIO"

// Load resolves configuration from defaults, an optional YAML file and
// PORTFOLIO_* environment variables, in increasing order of precedence.
// With an empty path a "portfolio.yaml" in the working directory is used
// when present. An explicit path that cannot be read is an error.
func Load(path string) (Config, error) {
	v := NewViper()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("portfolio")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strings.TrimSpace(path) != "" {
			return Config{}, fmt.Errorf("portfolio config: read %s: %w", describePath(path), err)
		}
	}

	return Decode(v)
}

// NewViper returns a viper instance seeded with DefaultConfig and bound to
// the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("portfolio config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.workers", cfg.Content.Workers)
	v.SetDefault("content.strict_slugs", cfg.Content.StrictSlugs)

	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.sanitize", cfg.Markdown.Sanitize)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.include_body", cfg.HTTP.IncludeBody)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)

	v.SetDefault("watch.enabled", cfg.Watch.Enabled)
	v.SetDefault("watch.debounce", cfg.Watch.Debounce)

	v.SetDefault("export.output_dir", cfg.Export.OutputDir)
	v.SetDefault("export.indent", cfg.Export.Indent)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	focus := cfg.Logging.Focus
	if focus == nil {
		focus = []string{}
	}
	v.SetDefault("logging.focus", focus)
}

func describePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "portfolio.yaml"
	}
	return path
}
