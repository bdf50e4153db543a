package web

import (
	"net/http"
	"strconv"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/notes"
)

// Handler provides HTTP handlers for the public note pages.
type Handler struct {
	notesService *notes.Service
}

// NewHandler creates a new web handler.
func NewHandler(notesService *notes.Service) *Handler {
	return &Handler{notesService: notesService}
}

// RegisterRoutes registers the public page routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /public/{id}", h.HandlePublicNote)
}

// HandlePublicNote handles GET /public/{id} - renders a public note as a
// standalone HTML page. Private and absent notes get the same 404 page, so
// the response does not reveal which of the two it was.
func (h *Handler) HandlePublicNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.renderNotFound(w)
		return
	}

	note, err := h.notesService.GetPublicNote(r.Context(), id)
	if err != nil {
		if errs.HasCode(err, errs.NotFound) {
			h.renderNotFound(w)
			return
		}
		http.Error(w, "Service unavailable", errs.HTTPStatus(errs.CodeOf(err)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(RenderNotePage(note))
}

func (h *Handler) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(notFoundPage))
}
