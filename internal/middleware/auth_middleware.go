package middleware

import (
	"net/http"
	"strings"

	"notebook-server/pkg/response"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token and binds the
// token's user id to the request context. Handlers behind it must take the
// caller's identity from GetUserID only.
func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				response.Unauthorized(w, msgNoToken)
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				response.Unauthorized(w, msgInvalidToken)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil || userID == "" {
				response.Unauthorized(w, msgInvalidToken)
				return
			}

			ctx := withUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
