package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func (api *ProjectsAPI) handleProjectList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	ctx := r.Context()
	query := r.URL.Query()
	tag := query.Get("tag")
	featuredOnly := parseBoolQuery(query.Get("featured"), false)
	includeBody := parseBoolQuery(query.Get("body"), api.includeBody)

	var (
		records []*interfaces.ProjectRecord
		err     error
	)
	switch {
	case tag != "":
		records, err = api.projects.ListByTag(ctx, tag)
		if err == nil && featuredOnly {
			records = projects.FilterFeatured(records)
		}
	case featuredOnly:
		records, err = api.projects.ListFeatured(ctx)
	default:
		records, err = api.projects.ListAll(ctx)
	}
	if err != nil {
		logging.FromContext(api.logger, ctx).Error("http.projects.list_failed", "error", err, "tag", tag, "featured", featuredOnly)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectPayload(records, includeBody))
}

func (api *ProjectsAPI) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	slug := r.PathValue("slug")
	record, ok := api.projects.GetBySlug(r.Context(), slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	if !parseBoolQuery(r.URL.Query().Get("body"), true) {
		record = record.WithoutBody()
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *ProjectsAPI) handleTagList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	tags, err := api.projects.Tags(r.Context())
	if err != nil {
		logging.FromContext(api.logger, r.Context()).Error("http.tags.list_failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (api *ProjectsAPI) available(w http.ResponseWriter) bool {
	if api.projects != nil {
		return true
	}
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Error:   "unavailable",
		Message: "project repository not configured",
	})
	return false
}


func projectPayload(records []*interfaces.ProjectRecord, includeBody bool) []*interfaces.ProjectRecord {
	out := make([]*interfaces.ProjectRecord, 0, len(records))
	for _, record := range records {
		if includeBody {
			out = append(out, record)
			continue
		}
		out = append(out, record.WithoutBody())
	}
	return out
}
