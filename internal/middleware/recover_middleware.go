package middleware

import (
	"net/http"
	"runtime/debug"

	"notebook-server/internal/logger"
	"notebook-server/pkg/response"
)

// RecoverMiddleware turns a handler panic into a generic 500.
func RecoverMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic in handler",
					"request_id", RequestIDFromContext(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				response.InternalError(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
