// Package handler provides the HTTP API surface of FileDepot.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/service"
)

// errorResponse is the uniform error envelope of the API.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a service or domain error to its HTTP status and the
// client-facing message, logging anything that falls through to a 500.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingEmail):
		return http.StatusBadRequest, "Missing email"
	case errors.Is(err, service.ErrMissingPassword):
		return http.StatusBadRequest, "Missing password"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusBadRequest, "Already exist"
	case errors.Is(err, service.ErrMissingName):
		return http.StatusBadRequest, "Missing name"
	case errors.Is(err, service.ErrMissingType):
		return http.StatusBadRequest, "Missing type"
	case errors.Is(err, service.ErrMissingData):
		return http.StatusBadRequest, "Missing data"
	case errors.Is(err, domain.ErrParentNotFound):
		return http.StatusBadRequest, "Parent not found"
	case errors.Is(err, domain.ErrParentNotFolder):
		return http.StatusBadRequest, "Parent is not a folder"
	case errors.Is(err, domain.ErrFolderHasNoContent):
		return http.StatusBadRequest, "A folder doesn't have content"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrContentNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
