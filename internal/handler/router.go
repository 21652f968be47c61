package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/metrics"
	"github.com/filedepot/filedepot/internal/service"
)

// RouterConfig contains the dependencies of the HTTP router.
type RouterConfig struct {
	AppHandler  *AppHandler
	UserHandler *UserHandler
	AuthHandler *AuthHandler
	FileHandler *FileHandler
	AuthService *service.AuthService
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// NewRouter assembles the API route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)

	authed := requireAuth(cfg.AuthService, cfg.Logger)
	maybeAuthed := optionalAuth(cfg.AuthService)

	r.Get("/status", cfg.AppHandler.Status)
	r.Get("/stats", cfg.AppHandler.Stats)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Post("/users", cfg.UserHandler.Create)
	r.Get("/connect", cfg.AuthHandler.Connect)

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/disconnect", cfg.AuthHandler.Disconnect)
		r.Get("/users/me", cfg.UserHandler.Me)
		r.Post("/files", cfg.FileHandler.Create)
		r.Get("/files", cfg.FileHandler.List)
		r.Get("/files/{id}", cfg.FileHandler.Get)
		r.Put("/files/{id}/publish", cfg.FileHandler.Publish)
		r.Put("/files/{id}/unpublish", cfg.FileHandler.Unpublish)
	})

	r.Group(func(r chi.Router) {
		r.Use(maybeAuthed)
		r.Get("/files/{id}/data", cfg.FileHandler.Data)
	})

	return r
}
