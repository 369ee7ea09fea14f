package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
	"github.com/goliatone/go-portfolio/pkg/testsupport"
)

func setupProjectsAPI(t *testing.T, opts ...Option) *http.ServeMux {
	t.Helper()

	dir := testsupport.ContentDir(t, map[string]string{
		"a.md": "---\ntitle: A\ndescription: first\ndate: 2024-01-01\nfeatured: true\ntags: [X, Y]\n---\nAlpha **body**\n",
		"b.md": "---\ntitle: B\ndescription: second\ndate: 2024-06-01\ntags: [Y]\n---\nBeta body\n",
		"c.md": "---\ndescription: missing title\ndate: 2024-07-01\n---\n",
	})

	repo := projects.NewRepository(markdown.NewService(markdown.Config{Dir: dir}, nil))
	api := NewProjectsAPI(append([]Option{WithRepository(repo)}, opts...)...)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register api: %v", err)
	}
	return mux
}

func doRequest(t *testing.T, handler http.Handler, method, path string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type projectJSON struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
	BodyHTML string   `json:"body_html"`
}

func slugs(records []projectJSON) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Slug)
	}
	return out
}

func TestProjectsAPI_List(t *testing.T) {
	mux := setupProjectsAPI(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/projects", http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var records []projectJSON
	decodeJSONBody(t, rec, &records)

	if diff := cmp.Diff([]string{"b", "a"}, slugs(records)); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if records[1].Date != "2024-01-01" || records[1].ID == "" {
		t.Fatalf("unexpected record %+v", records[1])
	}
	if records[1].BodyHTML == "" {
		t.Fatalf("expected body_html by default")
	}
}

func TestProjectsAPI_ListGolden(t *testing.T) {
	mux := setupProjectsAPI(t)

	var got []interfaces.ProjectRecord
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/projects?body=false", http.StatusOK), &got)

	var want []interfaces.ProjectRecord
	if err := testsupport.LoadGolden(filepath.Join("testdata", "projects_list.golden.json"), &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(interfaces.ProjectRecord{}, "ID")); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectsAPI_ListFilters(t *testing.T) {
	mux := setupProjectsAPI(t)

	cases := []struct {
		path string
		want []string
	}{
		{"/api/projects?featured=true", []string{"a"}},
		{"/api/projects?tag=y", []string{"b", "a"}},
		{"/api/projects?tag=Y&featured=true", []string{"a"}},
		{"/api/projects?tag=Z", []string{}},
	}
	for _, tc := range cases {
		var records []projectJSON
		decodeJSONBody(t, doRequest(t, mux, http.MethodGet, tc.path, http.StatusOK), &records)
		if records == nil {
			t.Fatalf("%s: expected JSON array, got null", tc.path)
		}
		if diff := cmp.Diff(tc.want, slugs(records)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", tc.path, diff)
		}
	}
}

func TestProjectsAPI_ListWithoutBody(t *testing.T) {
	mux := setupProjectsAPI(t, WithIncludeBody(false))

	var records []projectJSON
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/projects", http.StatusOK), &records)
	for _, record := range records {
		if record.BodyHTML != "" {
			t.Fatalf("expected body to be omitted, got %q", record.BodyHTML)
		}
	}

	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/projects?body=true", http.StatusOK), &records)
	if records[0].BodyHTML == "" {
		t.Fatalf("expected body=true to override the default")
	}
}

func TestProjectsAPI_Get(t *testing.T) {
	mux := setupProjectsAPI(t)

	var record projectJSON
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/projects/a", http.StatusOK), &record)
	if record.Slug != "a" || record.Title != "A" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.BodyHTML != "<p>Alpha <strong>body</strong></p>\n" {
		t.Fatalf("unexpected body %q", record.BodyHTML)
	}

	for _, path := range []string{"/api/projects/missing", "/api/projects/c"} {
		var payload errorResponse
		decodeJSONBody(t, doRequest(t, mux, http.MethodGet, path, http.StatusNotFound), &payload)
		if payload.Error != "not_found" {
			t.Fatalf("%s: unexpected error payload %+v", path, payload)
		}
	}
}

func TestProjectsAPI_Tags(t *testing.T) {
	mux := setupProjectsAPI(t)

	var tags []interfaces.TagCount
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/tags", http.StatusOK), &tags)
	want := []interfaces.TagCount{{Tag: "Y", Count: 2}, {Tag: "X", Count: 1}}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectsAPI_MethodNotAllowed(t *testing.T) {
	mux := setupProjectsAPI(t)
	doRequest(t, mux, http.MethodPost, "/api/projects", http.StatusMethodNotAllowed)
}

func TestProjectsAPI_CustomBasePath(t *testing.T) {
	mux := setupProjectsAPI(t, WithBasePath("/v1/"))
	doRequest(t, mux, http.MethodGet, "/v1/projects", http.StatusOK)
	doRequest(t, mux, http.MethodGet, "/api/projects", http.StatusNotFound)
}

func TestProjectsAPI_Unavailable(t *testing.T) {
	handler := NewProjectsAPI().Handler()
	doRequest(t, handler, http.MethodGet, "/api/projects", http.StatusServiceUnavailable)
}

type failingRepository struct {
	interfaces.ProjectRepository
	err error
}

func (f failingRepository) ListAll(context.Context) ([]*interfaces.ProjectRecord, error) {
	return nil, f.err
}

func (f failingRepository) Tags(context.Context) ([]interfaces.TagCount, error) {
	return nil, f.err
}

func TestProjectsAPI_RepositoryError(t *testing.T) {
	handler := NewProjectsAPI(WithRepository(failingRepository{err: errors.New("disk on fire")})).Handler()

	var payload errorResponse
	decodeJSONBody(t, doRequest(t, handler, http.MethodGet, "/api/projects", http.StatusInternalServerError), &payload)
	if payload.Error != "internal_error" || payload.Message != "" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	cancelled := NewProjectsAPI(WithRepository(failingRepository{err: context.Canceled})).Handler()
	doRequest(t, cancelled, http.MethodGet, "/api/tags", http.StatusServiceUnavailable)
}

func TestJoinPath(t *testing.T) {
	cases := map[[2]string]string{
		{"/api", "projects"}:  "/api/projects",
		{"api/", "/projects"}: "/api/projects",
		{"", "tags"}:          "/tags",
		{"/", "tags"}:         "/tags",
		{"/api", ""}:          "/api",
		{"", ""}:              "/",
	}
	for input, want := range cases {
		if got := joinPath(input[0], input[1]); got != want {
			t.Fatalf("joinPath(%q, %q) = %q, want %q", input[0], input[1], got, want)
		}
	}
}
