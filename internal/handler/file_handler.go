package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/metrics"
	"github.com/filedepot/filedepot/internal/service"
)

// FileHandler serves the catalog and content endpoints.
type FileHandler struct {
	files   *service.FileService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(files *service.FileService, m *metrics.Metrics, logger zerolog.Logger) *FileHandler {
	return &FileHandler{
		files:   files,
		metrics: m,
		logger:  logger.With().Str("handler", "file").Logger(),
	}
}

// Create uploads a new file, image, or folder.
// POST /files
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, service.ErrUnauthorized)
		return
	}

	var body struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		ParentID string `json:"parentId"`
		IsPublic bool   `json:"isPublic"`
		Data     string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, service.ErrMissingName)
		return
	}

	entry, err := h.files.Create(r.Context(), service.CreateFileInput{
		OwnerID:  user.ID,
		Name:     body.Name,
		Kind:     domain.FileKind(body.Type),
		ParentID: body.ParentID,
		IsPublic: body.IsPublic,
		Data:     body.Data,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.ObserveUpload(string(entry.Kind))
	writeJSON(w, http.StatusCreated, entry)
}

// Get returns one of the caller's entries.
// GET /files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, service.ErrUnauthorized)
		return
	}

	entry, err := h.files.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// List returns one page of the caller's entries under a parent.
// GET /files?parentId=&page=
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, service.ErrUnauthorized)
		return
	}

	// A page parameter that does not parse reads as page 0.
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 0
	}

	entries, err := h.files.List(r.Context(), user.ID, r.URL.Query().Get("parentId"), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Publish makes one of the caller's entries public.
// PUT /files/{id}/publish
func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish makes one of the caller's entries private again.
// PUT /files/{id}/unpublish
func (h *FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, service.ErrUnauthorized)
		return
	}

	entry, err := h.files.SetVisibility(r.Context(), user.ID, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Data streams an entry's content. Requests may carry a session token but
// do not have to: public entries are readable anonymously.
// GET /files/{id}/data?size=
func (h *FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	var requesterID int64
	if user, ok := userFromContext(r.Context()); ok {
		requesterID = user.ID
	}

	// Any positive size selects a variant; a variant that was never
	// generated is absent content, not a fallback to the original.
	var size int
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}

	out, err := h.files.ReadContent(r.Context(), requesterID, chi.URLParam(r, "id"), size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer out.Body.Close()

	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, out.Body); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream content")
	}
}
