package di

import (
	"fmt"
	"strings"

	exportcmd "github.com/goliatone/go-portfolio/internal/commands/export"
	projectsapi "github.com/goliatone/go-portfolio/internal/http"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/logging/gologger"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Container wires the portfolio runtime: logging, Markdown rendering, the
// project repository and the surfaces built on top of it.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser

	content    *markdown.Service
	repository *projects.Repository
	cached     *projects.CachedRepository
	watcher    *projects.Watcher
	override   interfaces.ProjectRepository

	api      *projectsapi.ProjectsAPI
	exporter *exportcmd.ExportProjectsHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithParser overrides the goldmark parser.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithRepository replaces the filesystem repository used by the HTTP API
// and the exporter. The watcher is not started for overridden repositories.
func WithRepository(repo interfaces.ProjectRepository) Option {
	return func(c *Container) {
		if repo != nil {
			c.override = repo
		}
	}
}

// NewContainer validates cfg and assembles the runtime.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.ValidateWith(markdown.KnownExtension); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureContent()
	c.configureRepositories()
	c.configureSurfaces()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "noop":
		c.loggerProvider = noopProvider{}
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure logging: %w", err)
		}
		c.loggerProvider = provider
		return nil
	}
}

func (c *Container) configureContent() {
	opts := interfaces.ParseOptions{
		Extensions: append([]string(nil), c.Config.Markdown.Extensions...),
		Sanitize:   c.Config.Markdown.Sanitize,
		HardWraps:  c.Config.Markdown.HardWraps,
		SafeMode:   c.Config.Markdown.SafeMode,
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(opts)
	}
	c.content = markdown.NewService(markdown.Config{
		Dir:     c.Config.Content.Dir,
		Pattern: c.Config.Content.Pattern,
		Parser:  opts,
	}, c.parser)
}

func (c *Container) configureRepositories() {
	if c.override != nil {
		return
	}
	projectsLogger := logging.ProjectsLogger(c.loggerProvider)
	c.repository = projects.NewRepository(c.content,
		projects.WithLogger(projectsLogger),
		projects.WithWorkers(c.Config.Content.Workers),
		projects.WithStrictSlugs(c.Config.Content.StrictSlugs),
	)
	if !c.Config.Watch.Enabled {
		return
	}
	c.cached = projects.NewCachedRepository(c.repository, projectsLogger)
	c.watcher = projects.NewWatcher(c.Config.Content.Dir, c.cached,
		projects.WithDebounce(c.Config.Watch.Debounce),
		projects.WithWatcherLogger(logging.WatchLogger(c.loggerProvider)),
		projects.WithMatch(c.content.Loader().Matches),
	)
}

func (c *Container) configureSurfaces() {
	repo := c.Projects()
	c.api = projectsapi.NewProjectsAPI(
		projectsapi.WithBasePath(c.Config.HTTP.BasePath),
		projectsapi.WithRepository(repo),
		projectsapi.WithIncludeBody(c.Config.HTTP.IncludeBody),
		projectsapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	c.exporter = exportcmd.NewExportProjectsHandler(repo, logging.CommandLogger(c.loggerProvider, "export"))
}

// Projects returns the repository serving queries. With watching enabled
// this is the cached view that the watcher invalidates.
func (c *Container) Projects() interfaces.ProjectRepository {
	switch {
	case c.override != nil:
		return c.override
	case c.cached != nil:
		return c.cached
	default:
		return c.repository
	}
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Parser exposes the Markdown parser.
func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

// Content exposes the Markdown content service.
func (c *Container) Content() *markdown.Service {
	return c.content
}

// Watcher returns the content watcher, or nil when watching is disabled.
func (c *Container) Watcher() *projects.Watcher {
	return c.watcher
}

// ProjectsAPI returns the JSON API.
func (c *Container) ProjectsAPI() *projectsapi.ProjectsAPI {
	return c.api
}

// ExportHandler returns the static export command handler.
func (c *Container) ExportHandler() *exportcmd.ExportProjectsHandler {
	return c.exporter
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
