package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type failingParser struct{}

func (failingParser) Parse([]byte) ([]byte, error) { return nil, errors.New("boom") }

func (failingParser) ParseWithOptions([]byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestServiceLoadAndRender(t *testing.T) {
	svc := NewService(Config{Dir: "testdata/projects"}, nil)

	doc, err := svc.LoadSlug(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("LoadSlug: %v", err)
	}
	html, err := svc.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "<strong>command line</strong>") {
		t.Fatalf("unexpected html %q", string(html))
	}
	if got := svc.AbsPath("alpha.md"); !strings.HasSuffix(got, "testdata/projects/alpha.md") {
		t.Fatalf("unexpected abs path %q", got)
	}
}

func TestServiceRender_Failure(t *testing.T) {
	svc := NewService(Config{Dir: "testdata/projects"}, failingParser{})

	doc, err := svc.Load(context.Background(), "beta.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := svc.Render(context.Background(), doc); !IsRenderError(err) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestServiceDiscover_MissingDir(t *testing.T) {
	svc := NewService(Config{Dir: "testdata/nope"}, nil)

	if _, err := svc.Discover(context.Background()); !IsContentMissing(err) {
		t.Fatalf("expected content missing, got %v", err)
	}
}

func TestNewServiceFS(t *testing.T) {
	fsys := fstest.MapFS{
		"gamma.md": &fstest.MapFile{Data: []byte("---\ntitle: Gamma\n---\nSome *text*\n")},
	}
	svc := NewServiceFS(fsys, Config{Dir: "/srv/content"}, nil)

	doc, err := svc.LoadSlug(context.Background(), "gamma")
	if err != nil {
		t.Fatalf("LoadSlug: %v", err)
	}
	if doc.FrontMatter["title"] != "Gamma" {
		t.Fatalf("unexpected front matter %#v", doc.FrontMatter)
	}
	html, err := svc.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "<em>text</em>") {
		t.Fatalf("unexpected html %q", html)
	}
	if got := svc.AbsPath(doc.Path); got != "/srv/content/gamma.md" {
		t.Fatalf("unexpected source path %q", got)
	}
}
