package markdown

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category goerrors.Category
		code     string
		check    func(error) bool
	}{
		{"content missing", ContentMissingError("a.md", fs.ErrNotExist), goerrors.CategoryNotFound, TextCodeContentMissing, IsContentMissing},
		{"content missing without cause", ContentMissingError("a.md", nil), goerrors.CategoryNotFound, TextCodeContentMissing, IsContentMissing},
		{"parse", ParseError("a.md", errors.New("bad yaml")), goerrors.CategoryValidation, TextCodeParseError, IsParseError},
		{"render", RenderError("a.md", nil), goerrors.CategoryOperation, TextCodeRenderError, IsRenderError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var typed *goerrors.Error
			if !errors.As(tc.err, &typed) {
				t.Fatalf("expected go-errors error, got %T", tc.err)
			}
			if typed.Category != tc.category {
				t.Fatalf("expected category %s, got %s", tc.category, typed.Category)
			}
			if typed.TextCode != tc.code {
				t.Fatalf("expected text code %s, got %s", tc.code, typed.TextCode)
			}
			if typed.Metadata["path"] != "a.md" {
				t.Fatalf("expected path metadata, got %#v", typed.Metadata)
			}
			if !tc.check(fmt.Errorf("wrapped: %w", tc.err)) {
				t.Fatalf("predicate should see through wrapping")
			}
		})
	}

	if IsParseError(ContentMissingError("a.md", nil)) {
		t.Fatalf("predicates must not match other kinds")
	}
	if IsContentMissing(errors.New("plain")) {
		t.Fatalf("plain errors are not content missing")
	}
}

func TestContentMissingError_PreservesCause(t *testing.T) {
	err := ContentMissingError("a.md", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
}
