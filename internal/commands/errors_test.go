package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func textCode(t *testing.T, err error) string {
	t.Helper()
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	return typed.TextCode
}

func TestWrapExecuteErrorTextCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"plain", errors.New("boom"), TextCodeExecuteFailed},
		{"cancelled", context.Canceled, TextCodeContextCancel},
		{"timeout", fmt.Errorf("write: %w", context.DeadlineExceeded), TextCodeContextTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := wrapExecuteError(tc.err)
			if got := textCode(t, wrapped); got != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, got)
			}
			if !errors.Is(wrapped, tc.err) {
				t.Fatalf("expected cause to stay reachable")
			}
		})
	}
}

func TestWrapContextErrorFallback(t *testing.T) {
	if got := textCode(t, wrapContextError(errors.New("odd"))); got != TextCodeContextError {
		t.Fatalf("expected %s, got %s", TextCodeContextError, got)
	}
	if wrapContextError(nil) != nil || wrapExecuteError(nil) != nil || wrapValidationError(nil) != nil {
		t.Fatal("expected nil errors to stay nil")
	}
}
