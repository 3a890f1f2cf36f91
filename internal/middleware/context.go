package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
	accessLogKey contextKey = "accessLog"
)

// accessLogEntry is filled in by inner middleware so the access log, which
// wraps the whole router, can report who made the request.
type accessLogEntry struct {
	userID string
}

func GetUserID(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

func UserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// RequestIDFromContext returns a request ID or an empty string when unavailable.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

func withUserID(ctx context.Context, userID string) context.Context {
	if entry, ok := ctx.Value(accessLogKey).(*accessLogEntry); ok {
		entry.userID = userID
	}
	return context.WithValue(ctx, UserIDKey, userID)
}
