package projects

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/goliatone/go-slug"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-portfolio/internal/identity"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const dateLayout = "2006-01-02"

// Option configures the repository at construction time.
type Option func(*Repository)

// WithLogger overrides the repository logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers bounds how many files are parsed concurrently during a listing.
func WithWorkers(workers int) Option {
	return func(r *Repository) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithStrictSlugs excludes files whose name is not a valid URL slug.
func WithStrictSlugs(strict bool) Option {
	return func(r *Repository) {
		r.strictSlugs = strict
	}
}

// Repository reads project records straight from the content directory on
// every call. It keeps no state between calls.
type Repository struct {
	content     *markdown.Service
	logger      interfaces.Logger
	workers     int
	strictSlugs bool
}

var _ interfaces.ProjectRepository = (*Repository)(nil)

// NewRepository constructs a repository over the markdown content service.
func NewRepository(content *markdown.Service, opts ...Option) *Repository {
	repo := &Repository{
		content: content,
		logger:  logging.NoOp(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

// ListAll loads every project file, newest first. Files that fail to parse
// or render are logged and skipped. A missing content directory yields an
// empty listing.
func (r *Repository) ListAll(ctx context.Context) ([]*interfaces.ProjectRecord, error) {
	names, err := r.content.Discover(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if markdown.IsContentMissing(err) {
			r.logger.Debug("projects.list.empty", "reason", "content_dir_missing", "dir", r.content.Dir())
			return []*interfaces.ProjectRecord{}, nil
		}
		return nil, fmt.Errorf("projects: list content: %w", err)
	}

	slots := make([]*interfaces.ProjectRecord, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, name := range names {
		group.Go(func() error {
			record, err := r.loadFile(groupCtx, name)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logSkipped(ctx, name, err)
				return nil
			}
			slots[i] = record
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	records := make([]*interfaces.ProjectRecord, 0, len(slots))
	seen := make(map[string]string, len(slots))
	for i, record := range slots {
		if record == nil {
			continue
		}
		if first, dup := seen[record.Slug]; dup {
			logging.FromContext(r.logger, ctx).Warn("projects.load.duplicate_slug", "slug", record.Slug, "path", names[i], "kept", first)
			continue
		}
		seen[record.Slug] = names[i]
		records = append(records, record)
	}

	sortRecords(records)
	r.logger.Debug("projects.list.complete", "files", len(names), "records", len(records))
	return records, nil
}

// GetBySlug returns the project stored under slug. Missing, malformed and
// unrenderable content all report false; the reason is logged.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*interfaces.ProjectRecord, bool) {
	record, err := r.Lookup(ctx, slug)
	if err != nil {
		logger := logging.WithContentContext(logging.FromContext(r.logger, ctx), "", slug)
		if markdown.IsContentMissing(err) || errors.Is(err, context.Canceled) {
			logger.Debug("projects.get.not_found", "error", err)
		} else {
			logger.Warn("projects.get.unavailable", "error", err)
		}
		return nil, false
	}
	return record, true
}

// Lookup returns the project stored under slug, or the reason it could not
// be produced (ContentMissing, ParseError or RenderError).
func (r *Repository) Lookup(ctx context.Context, slug string) (*interfaces.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !safeSlug(slug) {
		return nil, markdown.ContentMissingError(slug, nil)
	}
	name := r.content.Loader().PathFor(slug)
	if !r.content.Loader().Matches(name) {
		return nil, markdown.ContentMissingError(name, nil)
	}
	return r.loadFile(ctx, name)
}

// ListFeatured returns the featured subset of ListAll, order preserved.
func (r *Repository) ListFeatured(ctx context.Context) ([]*interfaces.ProjectRecord, error) {
	records, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFeatured(records), nil
}

// ListByTag returns the subset of ListAll carrying tag, compared
// case-insensitively.
func (r *Repository) ListByTag(ctx context.Context, tag string) ([]*interfaces.ProjectRecord, error) {
	records, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterByTag(records, tag), nil
}

// Slugs returns the slugs of every listed project in listing order.
func (r *Repository) Slugs(ctx context.Context) ([]string, error) {
	records, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return collectSlugs(records), nil
}

// Tags returns every distinct tag with the number of projects carrying it.
func (r *Repository) Tags(ctx context.Context) ([]interfaces.TagCount, error) {
	records, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(records), nil
}

func (r *Repository) loadFile(ctx context.Context, name string) (*interfaces.ProjectRecord, error) {
	doc, err := r.content.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if r.strictSlugs && !slug.IsValid(doc.Slug) {
		return nil, markdown.ParseError(name, fmt.Errorf("file name %q is not a valid slug", doc.Slug))
	}
	return r.buildRecord(ctx, doc)
}

func (r *Repository) buildRecord(ctx context.Context, doc *markdown.Document) (*interfaces.ProjectRecord, error) {
	fm, err := markdown.DecodeProjectFrontMatter(doc.FrontMatter)
	if err != nil {
		return nil, markdown.ParseError(doc.Path, err)
	}

	html, err := r.content.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	record := &interfaces.ProjectRecord{
		ID:          identity.ProjectUUID(doc.Slug),
		Slug:        doc.Slug,
		Title:       fm.Title,
		Description: fm.Description,
		Tags:        fm.MergedTags(foldTag),
		Date:        fm.Date,
		GitHub:      fm.GitHub,
		Live:        fm.Live,
		Image:       fm.Image,
		Featured:    fm.Featured,
		BodyHTML:    string(html),
		Body:        string(doc.Body),
		SourcePath:  r.content.AbsPath(doc.Path),
		Extra:       fm.Extra,
	}

	if published, ok := markdown.ParseDate(fm.Date); ok {
		record.PublishedAt = published
		record.DateValid = true
		record.Date = published.Format(dateLayout)
	} else {
		logging.WithContentContext(logging.FromContext(r.logger, ctx), doc.Path, doc.Slug).
			Warn("projects.load.invalid_date", "date", fm.Date)
	}

	return record, nil
}

func (r *Repository) logSkipped(ctx context.Context, name string, err error) {
	logger := logging.WithContentContext(logging.FromContext(r.logger, ctx), name, r.content.Loader().SlugFor(name))
	switch {
	case markdown.IsParseError(err):
		logger.Warn("projects.load.parse_failed", "error", err)
	case markdown.IsRenderError(err):
		logger.Warn("projects.load.render_failed", "error", err)
	case markdown.IsContentMissing(err):
		logger.Warn("projects.load.unreadable", "error", err)
	default:
		logger.Error("projects.load.failed", "error", err)
	}
}

func safeSlug(value string) bool {
	if value == "" || value == "." || value == ".." {
		return false
	}
	if strings.HasPrefix(value, ".") {
		return false
	}
	if strings.ContainsAny(value, `/\`) || strings.Contains(value, "..") {
		return false
	}
	return !strings.ContainsRune(value, 0)
}
