package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/service"
	"github.com/filedepot/filedepot/internal/session"
)

// AppHandler serves the service-level status and stats endpoints.
type AppHandler struct {
	sessions *session.Store
	db       repository.DatabaseHealth
	users    *service.UserService
	files    *service.FileService
	logger   zerolog.Logger
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(
	sessions *session.Store,
	db repository.DatabaseHealth,
	users *service.UserService,
	files *service.FileService,
	logger zerolog.Logger,
) *AppHandler {
	return &AppHandler{
		sessions: sessions,
		db:       db,
		users:    users,
		files:    files,
		logger:   logger.With().Str("handler", "app").Logger(),
	}
}

// Status reports the liveness of the two backing stores.
// GET /status
func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": h.sessions.Alive(ctx),
		"db":    h.db.Ping(ctx) == nil,
	})
}

// Stats reports the total number of users and catalog entries.
// GET /stats
func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.Count(ctx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	files, err := h.files.Count(ctx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
