package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const defaultPattern = "*.md"

// LoaderConfig configures how project files are discovered.
type LoaderConfig struct {
	// Pattern is matched against file names in the content root (defaults to "*.md").
	Pattern string
}

// Document is a content file split into raw front matter and Markdown body.
type Document struct {
	Path         string
	Slug         string
	FrontMatter  map[string]any
	Body         []byte
	LastModified time.Time
}

// Loader reads project documents from the root of an fs.FS. Sub-directories
// are ignored; one file is one project.
type Loader struct {
	fs      fs.FS
	pattern string
	ext     string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	return &Loader{
		fs:      filesystem,
		pattern: pattern,
		ext:     path.Ext(pattern),
	}
}

// Discover lists file names in the content root matching the naming
// convention, sorted by name. A missing root is reported as ContentMissing.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.fs == nil {
		return nil, ContentMissingError(".", nil)
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ContentMissingError(".", err)
		}
		return nil, fmt.Errorf("markdown loader: read content root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !l.Matches(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Matches reports whether name follows the project file naming convention.
func (l *Loader) Matches(name string) bool {
	match, err := path.Match(l.pattern, path.Base(name))
	return err == nil && match
}

// SlugFor derives the slug for a content file name.
func (l *Loader) SlugFor(name string) string {
	base := path.Base(name)
	if l.ext != "" {
		return strings.TrimSuffix(base, l.ext)
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// PathFor returns the file name a slug is stored under.
func (l *Loader) PathFor(slug string) string {
	return slug + l.ext
}

// Load reads and splits a single document. Unreadable files are reported
// as ContentMissing, malformed front matter as ParseError.
func (l *Loader) Load(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.fs == nil {
		return nil, ContentMissingError(name, nil)
	}

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, ContentMissingError(name, err)
	}

	var modified time.Time
	if info, statErr := fs.Stat(l.fs, name); statErr == nil {
		modified = info.ModTime()
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, ParseError(name, err)
	}

	return &Document{
		Path:         name,
		Slug:         l.SlugFor(name),
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}
