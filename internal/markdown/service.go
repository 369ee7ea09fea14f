package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Config controls where the Markdown service looks for project files and how
// it renders them.
type Config struct {
	Dir     string
	Pattern string
	Parser  interfaces.ParseOptions
}

// Service combines the loader and a MarkdownParser for filesystem-backed
// project documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
}

// NewService constructs a Markdown service rooted at cfg.Dir. When parser is
// nil, a goldmark parser with cfg.Parser defaults is created. The directory
// does not need to exist yet; discovery reports it as missing content.
func NewService(cfg Config, parser interfaces.MarkdownParser) *Service {
	return NewServiceFS(contentFS(cfg.Dir), cfg, parser)
}

// NewServiceFS constructs a service over an arbitrary filesystem. cfg.Dir is
// only used to report source paths.
func NewServiceFS(filesystem fs.FS, cfg Config, parser interfaces.MarkdownParser) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}
	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{Pattern: cfg.Pattern}),
	}
}

// Dir returns the configured content directory.
func (s *Service) Dir() string {
	return s.cfg.Dir
}

// Loader exposes the underlying document loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Discover lists the project files currently present.
func (s *Service) Discover(ctx context.Context) ([]string, error) {
	return s.loader.Discover(ctx)
}

// Load reads a single document by file name.
func (s *Service) Load(ctx context.Context, name string) (*Document, error) {
	return s.loader.Load(ctx, name)
}

// LoadSlug reads the document stored under slug.
func (s *Service) LoadSlug(ctx context.Context, slug string) (*Document, error) {
	return s.loader.Load(ctx, s.loader.PathFor(slug))
}

// Render converts the document body to HTML. Failures are reported as
// RenderError.
func (s *Service) Render(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, RenderError("", fmt.Errorf("markdown service: document is nil"))
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	html, err := s.parser.ParseWithOptions(doc.Body, s.cfg.Parser)
	if err != nil {
		return nil, RenderError(doc.Path, err)
	}
	if html == nil {
		html = []byte{}
	}
	return html, nil
}

// AbsPath resolves a content file name against the configured directory.
func (s *Service) AbsPath(name string) string {
	dir := strings.TrimSpace(s.cfg.Dir)
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

func contentFS(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return os.DirFS(dir)
}
