package logger

import (
	"context"
	"strconv"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// ============================================
// Context operations
// ============================================

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetUserID(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(userIDKey).(uint)
	return userID, ok
}

// Detach keeps the log fields of ctx on a fresh background context.
// Used when work outlives the request that started it.
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if requestID := GetRequestID(ctx); requestID != "" {
		out = WithRequestID(out, requestID)
	}
	if userID, ok := GetUserID(ctx); ok {
		out = WithUserID(out, userID)
	}
	return out
}

// FromContext returns the global logger enriched with request_id and user_id when present.
func FromContext(ctx context.Context) *Logger {
	l := GetLogger()
	if ctx == nil {
		return l
	}

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if userID, ok := GetUserID(ctx); ok {
		fields = append(fields, "user_id", strconv.FormatUint(uint64(userID), 10))
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}

// ============================================
// Convenience helpers with context
// ============================================

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError logs at error level with err attached.
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", errString(err)}, args...)
	FromContext(ctx).Error(msg, fields...)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
