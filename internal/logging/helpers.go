package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type contextFieldsKey struct{}

// WithFields attaches structured fields when the logger supports
// interfaces.FieldsLogger. Nil loggers and empty maps are returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// Ensure returns logger, or a no-op logger when it is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// ContextWithFields returns a context carrying log fields for the current
// request. Fields already on ctx are kept unless overwritten.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(fields) == 0 {
		return ctx
	}
	merged := maps.Clone(FieldsFromContext(ctx))
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey{}, merged)
}

// FieldsFromContext returns the log fields stored on ctx. The map must not
// be modified.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextFieldsKey{}).(map[string]any)
	return fields
}

// FromContext binds logger to ctx and attaches the request fields stored on it.
func FromContext(logger interfaces.Logger, ctx context.Context) interfaces.Logger {
	logger = Ensure(logger)
	if ctx == nil {
		return logger
	}
	return WithFields(logger.WithContext(ctx), FieldsFromContext(ctx))
}
