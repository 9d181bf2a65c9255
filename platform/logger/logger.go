// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ConsoleIDKey is the context key for the console session ID
	ConsoleIDKey contextKey = "console_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter creates a logger writing to w. Tests pass io.Discard.
func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter("production", io.Discard)
}

// WithContext returns a logger with context values extracted.
// Supports request_id and console_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID := RequestID(ctx); requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if consoleID, ok := ctx.Value(ConsoleIDKey).(string); ok && consoleID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("console_id", consoleID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// ContextWithRequestID stores a request ID for downstream loggers and clients.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithConsoleID tags ctx with the console session ID.
func ContextWithConsoleID(ctx context.Context, consoleID string) context.Context {
	return context.WithValue(ctx, ConsoleIDKey, consoleID)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// UpstreamCall logs an outbound call to the backend or the geocoder.
func (l *Logger) UpstreamCall(service, method, target string, status int, latencyMs float64) {
	l.Debug("upstream_call",
		slog.String("service", service),
		slog.String("method", method),
		slog.String("target", target),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
	)
}

// UpstreamError logs a failed outbound call.
func (l *Logger) UpstreamError(service, method, target string, err error) {
	l.Warn("upstream_error",
		slog.String("service", service),
		slog.String("method", method),
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
