package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProjectRecord is a single showcased project loaded from a Markdown file.
// BodyHTML is derived on every load and never persisted.
type ProjectRecord struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Date        string    `json:"date"`
	GitHub      string    `json:"github,omitempty"`
	Live        string    `json:"live,omitempty"`
	Image       string    `json:"image,omitempty"`
	Featured    bool      `json:"featured"`
	BodyHTML    string    `json:"body_html,omitempty"`

	// PublishedAt is the parsed Date. It is zero when DateValid is false.
	PublishedAt time.Time      `json:"-"`
	DateValid   bool           `json:"-"`
	Body        string         `json:"-"`
	SourcePath  string         `json:"-"`
	Extra       map[string]any `json:"-"`
}

// Clone returns a deep copy so cached records cannot be mutated by callers.
func (r *ProjectRecord) Clone() *ProjectRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.Extra != nil {
		out.Extra = make(map[string]any, len(r.Extra))
		for key, value := range r.Extra {
			out.Extra[key] = value
		}
	}
	return &out
}

// WithoutBody returns a copy with the rendered HTML stripped, for listing
// payloads where callers only need metadata.
func (r *ProjectRecord) WithoutBody() *ProjectRecord {
	out := r.Clone()
	if out != nil {
		out.BodyHTML = ""
	}
	return out
}

// TagCount reports how many projects carry a given tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ProjectRepository is the read-only query surface over project content.
// Aggregate queries are always sorted by date, newest first.
type ProjectRepository interface {
	ListAll(ctx context.Context) ([]*ProjectRecord, error)
	GetBySlug(ctx context.Context, slug string) (*ProjectRecord, bool)
	Lookup(ctx context.Context, slug string) (*ProjectRecord, error)
	ListFeatured(ctx context.Context) ([]*ProjectRecord, error)
	ListByTag(ctx context.Context, tag string) ([]*ProjectRecord, error)
	Slugs(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]TagCount, error)
}
