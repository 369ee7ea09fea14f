package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	rootModule     = "portfolio"
	projectsModule = "portfolio.projects"
	markdownModule = "portfolio.markdown"
	httpModule     = "portfolio.http"
	watchModule    = "portfolio.watch"
	commandsModule = "portfolio.commands"
)

const (
	fieldContentPath = "content_path"
	fieldSlug        = "slug"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module name is attached
// as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProjectsLogger returns the logger namespace reserved for the project repository.
func ProjectsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, projectsModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown parsing.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// HTTPLogger returns the logger namespace reserved for the read API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WatchLogger returns the logger namespace reserved for the content watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// CommandLogger returns a logger for command handlers of the given command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := ModuleLogger(provider, commandsModule+"."+name)
	return WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// WithContentContext enriches the logger with the content file path and slug.
// Empty values are skipped.
func WithContentContext(logger interfaces.Logger, path, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldContentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
