package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-portfolio/internal/logging"
)

type errorResponse struct {
	Error   string                `json:"error"`
	Code    string                `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
	Issues  []goerrors.FieldError `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	cleanBase := strings.Trim(strings.TrimSpace(base), "/")
	cleanSuffix := strings.Trim(strings.TrimSpace(suffix), "/")
	switch {
	case cleanBase == "" && cleanSuffix == "":
		return "/"
	case cleanBase == "":
		return "/" + cleanSuffix
	case cleanSuffix == "":
		return "/" + cleanBase
	default:
		return "/" + cleanBase + "/" + cleanSuffix
	}
}

// withRequestFields stores the request method and path on the request
// context so repository logs can be traced back to the API call.
func withRequestFields(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"http_method": r.Method,
			"http_path":   r.URL.Path,
		})
		next(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

// mapError translates repository errors into API responses. 5xx responses
// carry no internal detail.
func mapError(err error) (int, errorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Error: "unavailable"}
	}

	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}
	switch typed.Category {
	case goerrors.CategoryNotFound:
		return http.StatusNotFound, errorResponse{Error: "not_found", Code: typed.TextCode}
	case goerrors.CategoryValidation:
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Code:    typed.TextCode,
			Message: typed.Message,
			Issues:  typed.ValidationErrors,
		}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
