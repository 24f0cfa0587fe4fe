package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// contextKey is a private type for context keys to prevent collisions
type contextKey int

const (
	loggerKey contextKey = iota
)

// echoKey is where middleware stores the request-scoped logger on the echo context
const echoKey = "logger"

// WithLogger returns a copy of the context with the logger included
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromStdContext retrieves the logger from a Go context, falling back to the global logger
func FromStdContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// FromContext retrieves the logger from the echo context
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoKey).(*zap.Logger); ok {
		return l
	}
	if l, ok := c.Request().Context().Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

// SetContext stores the logger on the echo context and on the request's Go context,
// so that code below the handler layer logs with the same fields.
func SetContext(c echo.Context, logger *zap.Logger) {
	c.Set(echoKey, logger)
	req := c.Request()
	c.SetRequest(req.WithContext(WithLogger(req.Context(), logger)))
}
