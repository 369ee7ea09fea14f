package markdown

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const projectSchemaURL = "portfolio://schemas/project-frontmatter.json"

// projectSchema declares the shape of a project front matter block. Value
// rules that JSON Schema cannot express well (URLs, dates) run afterwards.
var projectSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"required": []any{
		"title",
		"description",
		"date",
	},
	"properties": map[string]any{
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string", "minLength": 1},
		"date":        map[string]any{"type": "string", "minLength": 1},
		"tags":        stringListSchema(),
		"tech":        stringListSchema(),
		"github":      map[string]any{"type": "string"},
		"live":        map[string]any{"type": "string"},
		"image":       map[string]any{"type": "string"},
		"featured":    map[string]any{"type": "boolean"},
	},
	"additionalProperties": true,
}

func stringListSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

var compiledProjectSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(projectSchema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(projectSchemaURL, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(projectSchemaURL)
})

// validateProjectShape checks a JSON-normalised front matter map against the
// project schema. Failures come back as a validation error listing one field
// error per schema violation.
func validateProjectShape(payload map[string]any) error {
	schema, err := compiledProjectSchema()
	if err != nil {
		return fmt.Errorf("compile project schema: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return goerrors.NewValidation("front matter does not match project schema", schemaFieldErrors(validationErr)...)
		}
		return err
	}
	return nil
}

func schemaFieldErrors(root *jsonschema.ValidationError) []goerrors.FieldError {
	var out []goerrors.FieldError
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			field := strings.TrimPrefix(strings.TrimSpace(node.InstanceLocation), "/")
			if field == "" {
				field = "#"
			}
			out = append(out, goerrors.FieldError{
				Field:   field,
				Message: strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field < out[j].Field
	})
	return out
}

// normalizeJSON converts decoded YAML into the value space JSON Schema
// expects: string keys, float64 numbers, RFC3339 strings for timestamps.
func normalizeJSON(raw map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalise front matter: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("normalise front matter: %w", err)
	}
	return out, nil
}
