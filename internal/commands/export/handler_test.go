package exportcmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func writeContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newRepository(t *testing.T) interfaces.ProjectRepository {
	t.Helper()
	dir := t.TempDir()
	writeContent(t, dir, map[string]string{
		"a.md": "---\ntitle: A\ndescription: first\ndate: 2024-01-01\nfeatured: true\ntags: [X, Y]\n---\nAlpha body\n",
		"b.md": "---\ntitle: B\ndescription: second\ndate: 2024-06-01\ntags: [Y]\n---\nBeta body\n",
	})
	return projects.NewRepository(markdown.NewService(markdown.Config{Dir: dir}, nil))
}

func readJSON(t *testing.T, path string, target any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

type exported struct {
	Slug     string `json:"slug"`
	BodyHTML string `json:"body_html"`
}

func TestExportProjectsHandler_WritesFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api")
	handler := NewExportProjectsHandler(newRepository(t), nil)

	var result Result
	cmd := ExportProjectsCommand{
		OutputDir:      out,
		Indent:         true,
		ResultCallback: func(r Result) { result = r },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var listing []exported
	readJSON(t, filepath.Join(out, "projects.json"), &listing)
	if len(listing) != 2 || listing[0].Slug != "b" || listing[1].Slug != "a" {
		t.Fatalf("unexpected listing %+v", listing)
	}
	for _, entry := range listing {
		if entry.BodyHTML != "" {
			t.Fatalf("expected listing without bodies, got %q", entry.BodyHTML)
		}
	}

	var featured []exported
	readJSON(t, filepath.Join(out, "featured.json"), &featured)
	if len(featured) != 1 || featured[0].Slug != "a" {
		t.Fatalf("unexpected featured %+v", featured)
	}

	var tags []interfaces.TagCount
	readJSON(t, filepath.Join(out, "tags.json"), &tags)
	if diff := cmp.Diff([]interfaces.TagCount{{Tag: "Y", Count: 2}, {Tag: "X", Count: 1}}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	var detail exported
	readJSON(t, filepath.Join(out, "projects", "a.json"), &detail)
	if !strings.Contains(detail.BodyHTML, "Alpha body") {
		t.Fatalf("expected detail documents to carry the body, got %q", detail.BodyHTML)
	}

	raw, err := os.ReadFile(filepath.Join(out, "projects.json"))
	if err != nil {
		t.Fatalf("read listing: %v", err)
	}
	if !strings.Contains(string(raw), "\n  {") {
		t.Fatalf("expected indented output, got %q", string(raw))
	}

	wantFiles := []string{"projects.json", "featured.json", "tags.json", "projects/b.json", "projects/a.json"}
	if diff := cmp.Diff(wantFiles, result.Files); diff != "" {
		t.Fatalf("result files mismatch (-want +got):\n%s", diff)
	}
	if result.Projects != 2 || result.Featured != 1 || result.Tags != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestExportProjectsHandler_IncludeBody(t *testing.T) {
	out := t.TempDir()
	handler := NewExportProjectsHandler(newRepository(t), nil)

	if err := handler.Execute(context.Background(), ExportProjectsCommand{OutputDir: out, IncludeBody: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var listing []exported
	readJSON(t, filepath.Join(out, "projects.json"), &listing)
	if listing[0].BodyHTML == "" {
		t.Fatalf("expected bodies in listing")
	}
}

func TestExportProjectsHandler_PrunesOnlyOwnedDocuments(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, map[string]string{
		"a.md": "---\ntitle: A\ndescription: first\ndate: 2024-01-01\n---\n",
		"b.md": "---\ntitle: B\ndescription: second\ndate: 2024-06-01\n---\n",
	})
	repo := projects.NewRepository(markdown.NewService(markdown.Config{Dir: dir}, nil))
	handler := NewExportProjectsHandler(repo, nil)
	out := t.TempDir()

	foreign := filepath.Join(out, "projects", "notes.json")
	writeContent(t, filepath.Dir(foreign), map[string]string{"notes.json": "{}"})

	if err := handler.Execute(context.Background(), ExportProjectsCommand{OutputDir: out}); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "b.md")); err != nil {
		t.Fatalf("remove b.md: %v", err)
	}

	var result Result
	err := handler.Execute(context.Background(), ExportProjectsCommand{
		OutputDir:      out,
		ResultCallback: func(r Result) { result = r },
	})
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if diff := cmp.Diff([]string{"projects/b.json"}, result.Removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(out, "projects", "b.json")); !os.IsNotExist(err) {
		t.Fatalf("expected b.json to be pruned, stat err=%v", err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatalf("expected file not written by the export to survive: %v", err)
	}
}

type divergentTags struct {
	interfaces.ProjectRepository
}

func (divergentTags) Tags(context.Context) ([]interfaces.TagCount, error) {
	return []interfaces.TagCount{{Tag: "Stale", Count: 9}}, nil
}

func TestExportProjectsHandler_TagsFollowListing(t *testing.T) {
	out := t.TempDir()
	handler := NewExportProjectsHandler(divergentTags{newRepository(t)}, nil)

	if err := handler.Execute(context.Background(), ExportProjectsCommand{OutputDir: out}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var tags []interfaces.TagCount
	readJSON(t, filepath.Join(out, "tags.json"), &tags)
	if diff := cmp.Diff([]interfaces.TagCount{{Tag: "Y", Count: 2}, {Tag: "X", Count: 1}}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestExportProjectsCommand_Validate(t *testing.T) {
	handler := NewExportProjectsHandler(newRepository(t), nil)

	for _, dir := range []string{"", "   ", "/"} {
		err := handler.Execute(context.Background(), ExportProjectsCommand{OutputDir: dir})
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error for %q, got %v", dir, err)
		}
	}
}

func TestExportProjectsHandler_NoRepository(t *testing.T) {
	handler := NewExportProjectsHandler(nil, nil)

	err := handler.Execute(context.Background(), ExportProjectsCommand{OutputDir: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error without repository")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestExportProjectsHandler_Dispatch(t *testing.T) {
	out := t.TempDir()
	handler := NewExportProjectsHandler(newRepository(t), nil)

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), ExportProjectsCommand{OutputDir: out}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "projects.json")); err != nil {
		t.Fatalf("expected dispatched export to write files: %v", err)
	}
}
