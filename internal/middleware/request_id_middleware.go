package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	RequestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// echoes it on the response.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := normalizeRequestID(r.Header.Get(RequestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func normalizeRequestID(raw string) string {
	candidate := strings.TrimSpace(raw)
	if len(candidate) > maxRequestIDLength {
		candidate = candidate[:maxRequestIDLength]
	}
	return candidate
}
