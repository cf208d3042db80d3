package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marlowe/fabula/internal/timeline"
)

// Templates.

// ListTemplates handles GET /templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.svc.ListTemplates()})
}

// CreateTemplate handles POST /templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var draft timeline.TemplateDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	tpl, err := h.svc.AddTemplate(draft)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// DeleteTemplate handles DELETE /templates/{id}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTemplate(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyTemplate handles POST /templates/{id}/apply.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req ApplyTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ApplyTemplate(req.CardIDs, chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Saved searches.

// ListSearches handles GET /searches.
func (h *Handler) ListSearches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"searches": h.svc.ListSearches()})
}

// SaveSearch handles POST /searches.
func (h *Handler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	var req SaveSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	q, err := h.svc.SaveSearch(req.Name, req.Text, req.Filters)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// DeleteSearch handles DELETE /searches/{id}.
func (h *Handler) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSearch(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Research notes.

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notes": h.svc.ListNotes()})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var draft timeline.NoteDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	note, err := h.svc.AddNote(draft)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(chi.URLParam(r, "id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var patch timeline.NotePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	note, err := h.svc.UpdateNote(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
