package service

import (
	"context"

	"quote_portal_backend/platform/logger"
)

// WithSessionID returns ctx carrying the visitor session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, logger.SessionIDKey, sessionID)
}

// SessionID returns the visitor session ID stored on ctx, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(logger.SessionIDKey).(string)
	return id
}
