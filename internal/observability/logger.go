package observability

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeyRequestID      ctxKey = "request_id"
	ctxKeyConversationID ctxKey = "conversation_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// WithConversationID stores a conversation_id in the context so every log
// line produced while serving one send can be correlated.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyConversationID, id)
}

// LoggerFromContext adds request_id and conversation_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	log := logger
	if reqID, _ := ctx.Value(ctxKeyRequestID).(string); reqID != "" {
		log = log.With("request_id", reqID)
	}
	if convID, _ := ctx.Value(ctxKeyConversationID).(string); convID != "" {
		log = log.With("conversation_id", convID)
	}
	return log
}
