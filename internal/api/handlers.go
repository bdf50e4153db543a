// Package api provides the JSON REST transport for the notes service.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/export"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/principal"
)

// Handler wraps the notes service and provides HTTP handlers
type Handler struct {
	notesService *notes.Service
	exporter     *export.Exporter
}

// NewHandler creates a new API handler. The exporter may be nil when object
// storage is not configured; the export endpoints then report 503.
func NewHandler(notesService *notes.Service, exporter *export.Exporter) *Handler {
	return &Handler{notesService: notesService, exporter: exporter}
}

// RegisterRoutes registers all notes API routes on the given mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Notes CRUD endpoints using Go 1.22+ routing patterns
	mux.HandleFunc("GET /notes", h.ListNotes)
	mux.HandleFunc("GET /notes/{id}", h.GetNote)
	mux.HandleFunc("POST /notes", h.CreateNote)
	mux.HandleFunc("PUT /notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", h.DeleteNote)
	mux.HandleFunc("GET /tags", h.ListTags)
	mux.HandleFunc("POST /export", h.CreateExport)
	mux.HandleFunc("GET /export", h.ListExports)
	mux.HandleFunc("GET /healthz", h.Healthz)
}

// ListNotes handles GET /notes - returns a paginated list of visible notes.
// Optional query parameters: tag (exact match), q (substring match),
// limit, offset.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	opts := notes.ListOptions{
		Tag:   r.URL.Query().Get("tag"),
		Query: r.URL.Query().Get("q"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			opts.Limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			opts.Offset = parsed
		}
	}

	result, err := h.notesService.ListNotes(r.Context(), principal.FromContext(r.Context()), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetNote handles GET /notes/{id} - returns a single visible note by ID
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	note, err := h.notesService.GetNote(r.Context(), principal.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes - creates a new note owned by the principal
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var draft notes.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	note, err := h.notesService.CreateNote(r.Context(), principal.FromContext(r.Context()), draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id} - replaces the mutable fields of a note
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	var draft notes.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	note, err := h.notesService.UpdateNote(r.Context(), principal.FromContext(r.Context()), id, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id} - deletes a note the principal owns
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNoteID(w, r)
	if !ok {
		return
	}

	if err := h.notesService.DeleteNote(r.Context(), principal.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TagListResponse is the response body for GET /tags
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// ListTags handles GET /tags - returns the distinct tags across visible notes
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.notesService.ListTags(r.Context(), principal.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// CreateExport handles POST /export - snapshots the principal's visible notes
// to object storage and returns the job descriptor
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	job, err := h.exporter.Run(r.Context(), principal.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

// ExportHistoryResponse is the response body for GET /export
type ExportHistoryResponse struct {
	Keys []string `json:"keys"`
}

// ListExports handles GET /export - lists the keys of previous snapshots
func (h *Handler) ListExports(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	keys, err := h.exporter.History(r.Context(), principal.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ExportHistoryResponse{Keys: keys})
}

// Healthz handles GET /healthz - liveness probe
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseNoteID extracts the numeric note id from the request path. Writes a
// 400 response and returns false when the id is not numeric.
func parseNoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "note id must be numeric")
		return 0, false
	}
	return id, true
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError translates a typed service error into an HTTP response.
// Untyped errors surface as 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	writeError(w, errs.HTTPStatus(code), errs.MessageOf(err))
}
