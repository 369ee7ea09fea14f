// Package http provides the read-only JSON API over the project repository.
//
// Routes mount under a configurable base path (default /api):
//   - Projects: GET /projects (?tag=, ?featured=true, ?body=false), GET /projects/{slug}
//   - Tags: GET /tags
//
// Host applications can register handlers on their own mux as needed.
package http
