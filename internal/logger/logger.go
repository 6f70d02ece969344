package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type ctxKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

// Initialize sets up the global logger with the specified level and format
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

// InitializeWithWriter is Initialize with an explicit destination.
func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	defaultLogger.Store(l)
	slog.SetDefault(l)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the default logger
func Get() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	Initialize("info", "text")
	return defaultLogger.Load()
}

// WithRequestID stores the request correlation id on ctx so that
// FromContext-derived loggers carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the correlation id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the default logger annotated with the request id, if any.
func FromContext(ctx context.Context) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return Get().With("request_id", id)
	}
	return Get()
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).ErrorContext(ctx, msg, args...)
}

// WithMethod returns a logger with method name attached
func WithMethod(methodName string) *slog.Logger {
	return Get().With("method", methodName)
}

// WithService returns a logger with service name attached
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

// EnterMethod logs method entry (process tracking)
func EnterMethod(methodName string, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "enter"}, args...)
	Get().Debug("→ Method entered", allArgs...)
}

// ExitMethod logs method exit (process tracking)
func ExitMethod(methodName string, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "exit"}, args...)
	Get().Debug("← Method exited", allArgs...)
}

// ExitMethodWithError logs method exit with error at warn level
func ExitMethodWithError(methodName string, err error, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "exit", "error", err}, args...)
	Get().Warn("← Method exited with error", allArgs...)
}

// DatabaseCall logs database operation (debug log for external resources)
func DatabaseCall(operation, table string, args ...any) {
	allArgs := append([]any{"operation", operation, "table", table}, args...)
	Get().Debug("→ Database call", allArgs...)
}

// DatabaseResult logs database operation result
func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	allArgs := append([]any{"operation", operation, "rows_affected", rowsAffected}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← Database call failed", allArgs...)
	} else {
		Get().Debug("← Database call succeeded", allArgs...)
	}
}

// ExternalServiceCall logs external service call
func ExternalServiceCall(service, operation string, args ...any) {
	allArgs := append([]any{"service", service, "operation", operation}, args...)
	Get().Debug("→ External service call", allArgs...)
}

// ExternalServiceResult logs external service result
func ExternalServiceResult(service, operation string, err error, args ...any) {
	allArgs := append([]any{"service", service, "operation", operation}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← External service call failed", allArgs...)
	} else {
		Get().Debug("← External service call succeeded", allArgs...)
	}
}
