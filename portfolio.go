package portfolio

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-command/dispatcher"

	exportcmd "github.com/goliatone/go-portfolio/internal/commands/export"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// ProjectRecord exports the project record DTO.
type ProjectRecord = interfaces.ProjectRecord

// TagCount exports the tag aggregate DTO.
type TagCount = interfaces.TagCount

// ProjectRepository exports the project query contract.
type ProjectRepository = interfaces.ProjectRepository

// ExportCommand exports the static export command message.
type ExportCommand = exportcmd.ExportProjectsCommand

// ExportResult summarises a completed export.
type ExportResult = exportcmd.Result

// Option customises the underlying container.
type Option = di.Option

var (
	// FilterFeatured keeps the featured records, order preserved.
	FilterFeatured = projects.FilterFeatured

	WithLoggerProvider = di.WithLoggerProvider
	WithParser         = di.WithParser
	WithRepository     = di.WithRepository
)

// Module represents the top level portfolio runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a portfolio module using the provided configuration and
// optional container overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Projects returns the project repository.
func (m *Module) Projects() ProjectRepository {
	return m.container.Projects()
}

// Handler returns the JSON API as an http.Handler.
func (m *Module) Handler() http.Handler {
	return m.container.ProjectsAPI().Handler()
}

// Register mounts the JSON API on an existing mux.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.container.ProjectsAPI().Register(mux)
}

// Exporter returns the static export command handler.
func (m *Module) Exporter() *exportcmd.ExportProjectsHandler {
	return m.container.ExportHandler()
}

// Export writes the static JSON files. A blank output directory falls back to
// the configured one.
func (m *Module) Export(ctx context.Context, cmd ExportCommand) (ExportResult, error) {
	if strings.TrimSpace(cmd.OutputDir) == "" {
		cmd.OutputDir = m.container.Config.Export.OutputDir
	}
	var result ExportResult
	callback := cmd.ResultCallback
	cmd.ResultCallback = func(r ExportResult) {
		result = r
		if callback != nil {
			callback(r)
		}
	}
	if err := m.Exporter().Execute(ctx, cmd); err != nil {
		return ExportResult{}, err
	}
	return result, nil
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// SubscribeCommands registers the module's command handlers with the
// go-command dispatcher so hosts can trigger them with dispatcher.Dispatch.
func (m *Module) SubscribeCommands() []CommandSubscription {
	return []CommandSubscription{
		dispatcher.SubscribeCommand(m.Exporter()),
	}
}

// Start begins watching the content directory when watching is enabled.
func (m *Module) Start(ctx context.Context) error {
	watcher := m.container.Watcher()
	if watcher == nil {
		return nil
	}
	return watcher.Start(ctx)
}

// Close stops background work started by Start.
func (m *Module) Close() error {
	var errs error
	if watcher := m.container.Watcher(); watcher != nil {
		errs = errors.Join(errs, watcher.Stop())
	}
	return errs
}
