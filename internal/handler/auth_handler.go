package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/service"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	logger zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

// Connect exchanges Basic credentials for a session token.
// GET /connect
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Login(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect invalidates the current session token.
// GET /disconnect
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(TokenHeader)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
