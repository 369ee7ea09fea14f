package markdown

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeContentMissing = "CONTENT_MISSING"
	TextCodeParseError     = "FRONTMATTER_INVALID"
	TextCodeRenderError    = "MARKDOWN_RENDER_FAILED"
)

var (
	errNoFrontMatter = errors.New("front matter block not found")
	errEmptyRender   = errors.New("renderer produced no output")
)

// ContentMissingError reports that the requested file (or the content
// directory itself) does not exist or could not be read.
func ContentMissingError(path string, cause error) error {
	msg := fmt.Sprintf("content %q not found", path)
	var err *goerrors.Error
	if cause == nil {
		err = goerrors.New(msg, goerrors.CategoryNotFound)
	} else {
		err = goerrors.Wrap(cause, goerrors.CategoryNotFound, msg)
		err.Category = goerrors.CategoryNotFound
	}
	return err.WithTextCode(TextCodeContentMissing).
		WithMetadata(map[string]any{"path": path})
}

// ParseError reports a malformed front matter block or a missing required field.
func ParseError(path string, cause error) error {
	if cause == nil {
		cause = errNoFrontMatter
	}
	err := goerrors.Wrap(cause, goerrors.CategoryValidation, fmt.Sprintf("parse %s", path))
	err.Category = goerrors.CategoryValidation
	return err.WithTextCode(TextCodeParseError).
		WithMetadata(map[string]any{"path": path})
}

// RenderError reports a Markdown to HTML conversion failure.
func RenderError(path string, cause error) error {
	if cause == nil {
		cause = errEmptyRender
	}
	err := goerrors.Wrap(cause, goerrors.CategoryOperation, fmt.Sprintf("render %s", path))
	err.Category = goerrors.CategoryOperation
	return err.WithTextCode(TextCodeRenderError).
		WithMetadata(map[string]any{"path": path})
}

// IsContentMissing reports whether err was produced by ContentMissingError.
func IsContentMissing(err error) bool {
	return hasTextCode(err, TextCodeContentMissing)
}

// IsParseError reports whether err was produced by ParseError.
func IsParseError(err error) bool {
	return hasTextCode(err, TextCodeParseError)
}

// IsRenderError reports whether err was produced by RenderError.
func IsRenderError(err error) bool {
	return hasTextCode(err, TextCodeRenderError)
}

func hasTextCode(err error, code string) bool {
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed == nil {
		return false
	}
	return typed.TextCode == code
}
