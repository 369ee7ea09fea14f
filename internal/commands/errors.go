package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation     = "COMMAND_VALIDATION_FAILED"
	TextCodeContextCancel  = "COMMAND_CONTEXT_CANCELED"
	TextCodeContextTimeout = "COMMAND_CONTEXT_TIMEOUT"
	TextCodeContextError   = "COMMAND_CONTEXT_ERROR"
	TextCodeExecuteFailed  = "COMMAND_EXECUTION_FAILED"
)

type contextFailure struct {
	target  error
	message string
	code    string
}

var contextFailures = []contextFailure{
	{context.Canceled, "command execution cancelled", TextCodeContextCancel},
	{context.DeadlineExceeded, "command execution deadline exceeded", TextCodeContextTimeout},
}

// wrapValidationError folds ozzo field errors into a go-errors validation
// error. Errors that already carry a category pass through.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command validation failed").
		WithTextCode(TextCodeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if failure, ok := matchContextFailure(err); ok {
		return goerrors.Wrap(err, goerrors.CategoryCommand, failure.message).WithTextCode(failure.code)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
		WithTextCode(TextCodeContextError)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if _, ok := matchContextFailure(err); ok {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(TextCodeExecuteFailed)
}

func matchContextFailure(err error) (contextFailure, bool) {
	for _, failure := range contextFailures {
		if errors.Is(err, failure.target) {
			return failure, true
		}
	}
	return contextFailure{}, false
}
