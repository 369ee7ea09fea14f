package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const defaultBasePath = "/api"

// ProjectsAPI registers the project read endpoints.
type ProjectsAPI struct {
	basePath    string
	projects    interfaces.ProjectRepository
	includeBody bool
	logger      interfaces.Logger
}

// Option mutates the ProjectsAPI configuration.
type Option func(*ProjectsAPI)

// NewProjectsAPI constructs a ProjectsAPI instance. Bodies are included in
// listings unless WithIncludeBody(false) is supplied.
func NewProjectsAPI(opts ...Option) *ProjectsAPI {
	api := &ProjectsAPI{
		basePath:    defaultBasePath,
		includeBody: true,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *ProjectsAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithRepository wires the project repository.
func WithRepository(repo interfaces.ProjectRepository) Option {
	return func(api *ProjectsAPI) {
		if api != nil {
			api.projects = repo
		}
	}
}

// WithIncludeBody sets whether listings carry body_html when the request
// does not say otherwise.
func WithIncludeBody(include bool) Option {
	return func(api *ProjectsAPI) {
		if api != nil {
			api.includeBody = include
		}
	}
}

// WithLogger overrides the API logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *ProjectsAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *ProjectsAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	mux.HandleFunc("GET "+joinPath(api.basePath, "projects"), withRequestFields(api.handleProjectList))
	mux.HandleFunc("GET "+joinPath(api.basePath, "projects/{slug}"), withRequestFields(api.handleProjectGet))
	mux.HandleFunc("GET "+joinPath(api.basePath, "tags"), withRequestFields(api.handleTagList))
	return nil
}

// Handler returns a mux with the API registered.
func (api *ProjectsAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	_ = api.Register(mux)
	return mux
}

// BasePath returns the mount point of the API.
func (api *ProjectsAPI) BasePath() string {
	return joinPath(api.basePath, "")
}
