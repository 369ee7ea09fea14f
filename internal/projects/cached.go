package projects

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Invalidator is implemented by anything holding derived content state that
// must be dropped when the source files change.
type Invalidator interface {
	Invalidate()
}

// CachedRepository serves queries from an in-memory snapshot of the wrapped
// repository's listing. The snapshot is rebuilt lazily after Invalidate.
// Records handed to callers are copies.
type CachedRepository struct {
	source *Repository
	logger interfaces.Logger

	loads singleflight.Group

	mu         sync.RWMutex
	snapshot   []*interfaces.ProjectRecord
	index      map[string]*interfaces.ProjectRecord
	valid      bool
	generation uint64
}

var (
	_ interfaces.ProjectRepository = (*CachedRepository)(nil)
	_ Invalidator                  = (*CachedRepository)(nil)
)

// NewCachedRepository wraps source with a snapshot cache.
func NewCachedRepository(source *Repository, logger interfaces.Logger) *CachedRepository {
	return &CachedRepository{
		source: source,
		logger: logging.Ensure(logger),
	}
}

// Invalidate drops the current snapshot; the next query reloads from disk.
func (c *CachedRepository) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.index = nil
	c.valid = false
	c.generation++
	c.mu.Unlock()
	c.logger.Debug("projects.cache.invalidated")
}

func (c *CachedRepository) ListAll(ctx context.Context) ([]*interfaces.ProjectRecord, error) {
	records, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return cloneRecords(records), nil
}

func (c *CachedRepository) GetBySlug(ctx context.Context, slug string) (*interfaces.ProjectRecord, bool) {
	record, err := c.Lookup(ctx, slug)
	if err != nil {
		logging.WithContentContext(c.logger, "", slug).Debug("projects.get.not_found", "error", err)
		return nil, false
	}
	return record, true
}

// Lookup answers from the snapshot when possible and falls back to the
// source repository so the failure reason matches an uncached lookup.
func (c *CachedRepository) Lookup(ctx context.Context, slug string) (*interfaces.ProjectRecord, error) {
	if !safeSlug(slug) {
		return nil, markdown.ContentMissingError(slug, nil)
	}
	_, index, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if record, ok := index[slug]; ok {
		return record.Clone(), nil
	}
	return c.source.Lookup(ctx, slug)
}

func (c *CachedRepository) ListFeatured(ctx context.Context) ([]*interfaces.ProjectRecord, error) {
	records, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return cloneRecords(FilterFeatured(records)), nil
}

func (c *CachedRepository) ListByTag(ctx context.Context, tag string) ([]*interfaces.ProjectRecord, error) {
	records, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return cloneRecords(filterByTag(records, tag)), nil
}

func (c *CachedRepository) Slugs(ctx context.Context) ([]string, error) {
	records, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return collectSlugs(records), nil
}

func (c *CachedRepository) Tags(ctx context.Context) ([]interfaces.TagCount, error) {
	records, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(records), nil
}

type snapshotResult struct {
	records []*interfaces.ProjectRecord
	index   map[string]*interfaces.ProjectRecord
}

func (c *CachedRepository) load(ctx context.Context) ([]*interfaces.ProjectRecord, map[string]*interfaces.ProjectRecord, error) {
	c.mu.RLock()
	if c.valid {
		records, index := c.snapshot, c.index
		c.mu.RUnlock()
		return records, index, nil
	}
	generation := c.generation
	c.mu.RUnlock()

	// The flight is keyed by generation so callers arriving after an
	// Invalidate never join a load that started before it. The load itself
	// is detached from any single caller's cancellation.
	key := strconv.FormatUint(generation, 10)
	flight := c.loads.DoChan(key, func() (any, error) {
		return c.fill(context.WithoutCancel(ctx), generation)
	})
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, nil, res.Err
		}
		result := res.Val.(snapshotResult)
		return result.records, result.index, nil
	}
}

func (c *CachedRepository) fill(ctx context.Context, generation uint64) (snapshotResult, error) {
	records, err := c.source.ListAll(ctx)
	if err != nil {
		return snapshotResult{}, err
	}
	index := make(map[string]*interfaces.ProjectRecord, len(records))
	for _, record := range records {
		index[record.Slug] = record
	}

	c.mu.Lock()
	if c.generation == generation {
		c.snapshot = records
		c.index = index
		c.valid = true
	}
	c.mu.Unlock()

	c.logger.Debug("projects.cache.loaded", "records", len(records), "generation", generation)
	return snapshotResult{records: records, index: index}, nil
}

func cloneRecords(records []*interfaces.ProjectRecord) []*interfaces.ProjectRecord {
	out := make([]*interfaces.ProjectRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.Clone())
	}
	return out
}
