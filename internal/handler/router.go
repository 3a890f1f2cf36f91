package handler

import (
	"net/http"

	"notebook-server/internal/middleware"
	"notebook-server/pkg/response"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth   *AuthHandler
	User   *UserHandler
	Note   *NoteHandler
	Health *HealthHandler
}

type CORSOptions struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// NewRouter registers every route and wraps the router in the request id,
// access log, panic recovery and CORS middleware, in that order.
func NewRouter(deps *Deps, h Handlers, tokens middleware.TokenVerifier, cors CORSOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.HandleFunc("/profile", h.User.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.User.UpdateProfile).Methods(http.MethodPut)

	protected.HandleFunc("/notes", h.Note.List).Methods(http.MethodGet)
	protected.HandleFunc("/notes", h.Note.Create).Methods(http.MethodPost)
	protected.HandleFunc("/notes/{id}", h.Note.Update).Methods(http.MethodPut)
	protected.HandleFunc("/notes/{id}", h.Note.Delete).Methods(http.MethodDelete)

	var handler http.Handler = r
	handler = middleware.CORSMiddleware(cors.AllowedOrigins, cors.AllowedMethods, cors.AllowedHeaders)(handler)
	handler = middleware.RecoverMiddleware(deps.Log)(handler)
	handler = middleware.LoggerMiddleware(deps.Log)(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return handler
}
