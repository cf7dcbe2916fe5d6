package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey privat supaya key tidak bentrok dengan package lain.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

// WithRequestID menaruh request id ke context. Dipasang oleh middleware,
// dibaca ulang saat menulis baris outbox supaya event bisa dilacak balik
// ke request HTTP-nya.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithLogger menaruh logger yang sudah diberi field request ke context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger mengambil logger request dari context. Fallback ke logger milik
// pemanggil (atau nop) supaya tidak pernah nil, misalnya di jalur worker
// yang tidak lewat middleware HTTP.
func GetLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
