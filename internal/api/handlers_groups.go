package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marlowe/fabula/internal/timeline"
)

// ListGroups handles GET /groups.
func (h *Handler) ListGroups(w http.ResponseWriter, _ *http.Request) {
	groups := h.svc.ListGroups()
	writeJSON(w, http.StatusOK, GroupListResponse{Groups: groups, Total: len(groups)})
}

// CreateGroup handles POST /groups.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var draft timeline.GroupDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	group, err := h.svc.AddGroup(draft)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// GetGroup handles GET /groups/{id}.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.GetGroup(chi.URLParam(r, "id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// UpdateGroup handles PATCH /groups/{id}.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var patch timeline.GroupPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	group, err := h.svc.UpdateGroup(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/{id}. Member cards survive with
// their parent cleared.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGroup(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleGroupCollapse handles POST /groups/{id}/collapse.
func (h *Handler) ToggleGroupCollapse(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.ToggleGroupCollapse(chi.URLParam(r, "id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ReorderGroups handles POST /groups/reorder.
func (h *Handler) ReorderGroups(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ReorderGroups(req.DragIndex, req.HoverIndex); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
