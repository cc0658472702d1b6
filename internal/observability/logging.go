// Package observability provides logging, metrics, and tracing helpers
// shared by the repositories, services and realtime hub.
package observability

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync/atomic"
)

var globalLogger atomic.Pointer[slog.Logger]

func init() {
	globalLogger.Store(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// SetLogger replaces the logger used by the helpers in this package.
func SetLogger(l *slog.Logger) {
	if l != nil {
		globalLogger.Store(l)
	}
}

// Logger returns the logger used by the helpers in this package.
func Logger() *slog.Logger {
	return globalLogger.Load()
}

// fieldAttrs turns a field map into slog attributes in a stable order.
func fieldAttrs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// RepoLogger logs repository mutations at debug level and failures at error level.
type RepoLogger struct {
	table string
}

// NewRepoLogger creates a RepoLogger for table.
func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) log(ctx context.Context, operation string, fields map[string]any) {
	attrs := append([]any{slog.String("table", l.table), slog.String("operation", operation)}, fieldAttrs(fields)...)
	Logger().DebugContext(ctx, "repository "+operation, attrs...)
}

func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) { l.log(ctx, "create", fields) }
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) { l.log(ctx, "update", fields) }
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) { l.log(ctx, "delete", fields) }

// LogError records a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	Logger().ErrorContext(ctx, "repository error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// WSLogger logs realtime connection lifecycle events.
type WSLogger struct {
	hub string
}

// NewWSLogger creates a WSLogger for the named hub.
func NewWSLogger(hub string) *WSLogger {
	return &WSLogger{hub: hub}
}

func (l *WSLogger) LogConnect(ctx context.Context, userID uint) {
	Logger().InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hub), slog.Uint64("user_id", uint64(userID)))
}

func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	Logger().InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hub), slog.Uint64("user_id", uint64(userID)), slog.String("reason", reason))
}

func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, event string) {
	Logger().ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", event),
		slog.String("error", err.Error()),
	)
}

// LogServiceCall records a notable service-level event.
func LogServiceCall(ctx context.Context, service, method string, fields map[string]any) {
	attrs := append([]any{slog.String("service", service), slog.String("method", method)}, fieldAttrs(fields)...)
	Logger().InfoContext(ctx, "service call", attrs...)
}
