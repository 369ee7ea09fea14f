package exportcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	projectsFile = "projects.json"
	featuredFile = "featured.json"
	tagsFile     = "tags.json"
	projectsDir  = "projects"
	manifestFile = ".export-manifest.json"
)

// manifest records the per-project documents written by the last export so
// later runs only prune files they own.
type manifest struct {
	Projects []string `json:"projects"`
}

// ErrRepositoryUnavailable is returned when no repository is configured.
var ErrRepositoryUnavailable = errors.New("export: project repository not configured")

// ExportProjectsHandler renders the repository to static JSON files using
// the shared command handler foundation.
type ExportProjectsHandler struct {
	inner *commands.Handler[ExportProjectsCommand]
}

// NewExportProjectsHandler constructs a handler reading from repo.
func NewExportProjectsHandler(repo interfaces.ProjectRepository, logger interfaces.Logger, opts ...commands.HandlerOption[ExportProjectsCommand]) *ExportProjectsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ExportProjectsCommand) error {
		if repo == nil {
			return ErrRepositoryUnavailable
		}
		started := time.Now()
		result, err := export(ctx, repo, msg)
		if err != nil {
			return err
		}
		result.Duration = time.Since(started)
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportProjectsCommand]{
		commands.WithLogger[ExportProjectsCommand](baseLogger),
		commands.WithOperation[ExportProjectsCommand]("export.projects"),
		commands.WithMessageFields(func(msg ExportProjectsCommand) map[string]any {
			fields := map[string]any{"output_dir": msg.OutputDir}
			if msg.IncludeBody {
				fields["include_body"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportProjectsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportProjectsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportProjectsCommand].
func (h *ExportProjectsHandler) Execute(ctx context.Context, msg ExportProjectsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func export(ctx context.Context, repo interfaces.ProjectRepository, msg ExportProjectsCommand) (Result, error) {
	outDir := filepath.Clean(strings.TrimSpace(msg.OutputDir))
	result := Result{OutputDir: outDir}

	records, err := repo.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("export: list projects: %w", err)
	}
	tags := projects.CountTags(records)

	listing := make([]*interfaces.ProjectRecord, 0, len(records))
	featured := make([]*interfaces.ProjectRecord, 0)
	for _, record := range records {
		entry := record
		if !msg.IncludeBody {
			entry = record.WithoutBody()
		}
		listing = append(listing, entry)
		if record.Featured {
			featured = append(featured, entry)
		}
	}

	detailDir := filepath.Join(outDir, projectsDir)
	if err := os.MkdirAll(detailDir, 0o755); err != nil {
		return result, fmt.Errorf("export: create %s: %w", detailDir, err)
	}

	write := func(path string, payload any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := encode(payload, msg.Indent)
		if err != nil {
			return fmt.Errorf("export: encode %s: %w", path, err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("export: write %s: %w", path, err)
		}
		rel, relErr := filepath.Rel(outDir, path)
		if relErr != nil {
			rel = path
		}
		result.Files = append(result.Files, filepath.ToSlash(rel))
		return nil
	}

	if err := write(filepath.Join(outDir, projectsFile), listing); err != nil {
		return result, err
	}
	if err := write(filepath.Join(outDir, featuredFile), featured); err != nil {
		return result, err
	}
	if err := write(filepath.Join(outDir, tagsFile), tags); err != nil {
		return result, err
	}

	keep := make(map[string]struct{}, len(records))
	for _, record := range records {
		name := record.Slug + ".json"
		keep[name] = struct{}{}
		if err := write(filepath.Join(detailDir, name), record); err != nil {
			return result, err
		}
	}

	manifestPath := filepath.Join(outDir, manifestFile)
	previous, err := readManifest(manifestPath)
	if err != nil {
		return result, err
	}
	removed, err := pruneStale(detailDir, previous, keep)
	if err != nil {
		return result, err
	}
	if err := writeManifest(manifestPath, keep); err != nil {
		return result, err
	}

	result.Projects = len(records)
	result.Featured = len(featured)
	result.Tags = len(tags)
	result.Removed = removed
	return result, nil
}

// pruneStale deletes per-project documents listed in the previous manifest
// whose project no longer exists. Files the export never wrote are left alone.
func pruneStale(dir string, previous manifest, keep map[string]struct{}) ([]string, error) {
	var removed []string
	for _, name := range previous.Projects {
		if _, ok := keep[name]; ok || name != filepath.Base(name) || filepath.Ext(name) != ".json" {
			continue
		}
		err := os.Remove(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return removed, fmt.Errorf("export: remove stale %s: %w", name, err)
		}
		removed = append(removed, projectsDir+"/"+name)
	}
	sort.Strings(removed)
	return removed, nil
}

func readManifest(path string) (manifest, error) {
	var m manifest
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("export: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("export: decode manifest %s: %w", path, err)
	}
	return m, nil
}

func writeManifest(path string, written map[string]struct{}) error {
	m := manifest{Projects: make([]string, 0, len(written))}
	for name := range written {
		m.Projects = append(m.Projects, name)
	}
	sort.Strings(m.Projects)
	data, err := encode(m, true)
	if err != nil {
		return fmt.Errorf("export: encode manifest: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("export: write manifest: %w", err)
	}
	return nil
}

func encode(payload any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
