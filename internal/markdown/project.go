package markdown

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
)

// ProjectFrontMatter is the typed view of a project's front matter after
// schema validation. Optional fields default to their zero values.
type ProjectFrontMatter struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Tech        []string `json:"tech"`
	GitHub      string   `json:"github"`
	Live        string   `json:"live"`
	Image       string   `json:"image"`
	Featured    bool     `json:"featured"`

	// Extra holds keys outside the project schema.
	Extra map[string]any `json:"-"`
}

var knownProjectKeys = map[string]struct{}{
	"title":       {},
	"description": {},
	"date":        {},
	"tags":        {},
	"tech":        {},
	"github":      {},
	"live":        {},
	"image":       {},
	"featured":    {},
}

// DecodeProjectFrontMatter validates a raw front matter mapping and decodes it
// into ProjectFrontMatter. Required fields are never defaulted.
func DecodeProjectFrontMatter(raw map[string]any) (ProjectFrontMatter, error) {
	payload, err := normalizeJSON(raw)
	if err != nil {
		return ProjectFrontMatter{}, err
	}
	if err := validateProjectShape(payload); err != nil {
		return ProjectFrontMatter{}, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return ProjectFrontMatter{}, fmt.Errorf("decode front matter: %w", err)
	}
	var fm ProjectFrontMatter
	if err := json.Unmarshal(encoded, &fm); err != nil {
		return ProjectFrontMatter{}, fmt.Errorf("decode front matter: %w", err)
	}

	fm.Title = strings.TrimSpace(fm.Title)
	fm.Description = strings.TrimSpace(fm.Description)
	fm.Date = strings.TrimSpace(fm.Date)
	fm.GitHub = strings.TrimSpace(fm.GitHub)
	fm.Live = strings.TrimSpace(fm.Live)
	fm.Image = strings.TrimSpace(fm.Image)

	for key, value := range payload {
		if _, known := knownProjectKeys[key]; known {
			continue
		}
		if fm.Extra == nil {
			fm.Extra = map[string]any{}
		}
		fm.Extra[key] = value
	}

	if err := fm.Validate(); err != nil {
		return ProjectFrontMatter{}, err
	}
	return fm, nil
}

// Validate applies value rules on top of the schema: required strings must
// not be blank and links must be absolute URLs.
func (fm ProjectFrontMatter) Validate() error {
	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.Description, validation.Required),
		validation.Field(&fm.Date, validation.Required),
		validation.Field(&fm.GitHub, is.RequestURL),
		validation.Field(&fm.Live, is.RequestURL),
		validation.Field(&fm.Image, validation.By(imageReference)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "front matter values are invalid")
	}
	return nil
}

func imageReference(value any) error {
	ref, _ := value.(string)
	if ref == "" || strings.HasPrefix(ref, "/") {
		return nil
	}
	return is.RequestURL.Validate(ref)
}

// MergedTags merges the tags and tech lists. Entries are trimmed, blanks dropped,
// and duplicates removed case-insensitively keeping the first spelling.
func (fm ProjectFrontMatter) MergedTags(fold func(string) string) []string {
	if fold == nil {
		fold = strings.ToLower
	}
	out := make([]string, 0, len(fm.Tags)+len(fm.Tech))
	seen := map[string]struct{}{}
	for _, list := range [][]string{fm.Tags, fm.Tech} {
		for _, tag := range list {
			trimmed := strings.TrimSpace(tag)
			if trimmed == "" {
				continue
			}
			key := fold(trimmed)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, trimmed)
		}
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
}

// ParseDate parses a front matter date. The boolean is false when the value
// does not match any accepted layout.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
