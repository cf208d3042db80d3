package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/timeline"
)

// Handler holds API route handlers.
type Handler struct {
	svc *timeline.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *timeline.Service) *Handler {
	return &Handler{svc: svc}
}

// writeOpError maps service errors to HTTP status codes.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListCards handles GET /cards. With a search term or filter facets in the
// query string it returns the filtered subset, input order preserved.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cards := h.svc.Filter(q.Get("search"), filtersFromQuery(q))
	writeJSON(w, http.StatusOK, CardListResponse{Cards: cards, Total: len(cards)})
}

// TimelineView handles GET /cards/timeline: the display projection, sorted
// by (date, time) when every card has an absolute date.
func (h *Handler) TimelineView(w http.ResponseWriter, _ *http.Request) {
	cards := h.svc.TimelineView()
	writeJSON(w, http.StatusOK, CardListResponse{Cards: cards, Total: len(cards)})
}

// UngroupedCards handles GET /cards/ungrouped.
func (h *Handler) UngroupedCards(w http.ResponseWriter, _ *http.Request) {
	cards := h.svc.UngroupedCards()
	writeJSON(w, http.StatusOK, CardListResponse{Cards: cards, Total: len(cards)})
}

// UniqueValues handles GET /cards/values: distinct metadata values for
// filter controls.
func (h *Handler) UniqueValues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CollectUniqueValues())
}

// CreateCard handles POST /cards.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var draft timeline.CardDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	card, err := h.svc.AddCard(draft)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// GetCard handles GET /cards/{id}.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.GetCard(chi.URLParam(r, "id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// UpdateCard handles PATCH /cards/{id}.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var patch timeline.CardPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	card, err := h.svc.UpdateCard(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id}.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCard(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveCard handles POST /cards/{id}/move. Out-of-range positions are
// clamped, never rejected.
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.MoveCardToPosition(chi.URLParam(r, "id"), req.Position); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveCardToTop handles POST /cards/{id}/top.
func (h *Handler) MoveCardToTop(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MoveCardToTop(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveCardToBottom handles POST /cards/{id}/bottom.
func (h *Handler) MoveCardToBottom(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MoveCardToBottom(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderCards handles POST /cards/reorder: the single-step drag reorder.
func (h *Handler) ReorderCards(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ReorderCards(req.DragIndex, req.HoverIndex, req.GroupID); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InsertCardAfter handles POST /cards/insert-after.
func (h *Handler) InsertCardAfter(w http.ResponseWriter, r *http.Request) {
	var req InsertAfterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := h.svc.InsertCardAfter(req.AfterID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// AssignCard handles POST /cards/{id}/assign.
func (h *Handler) AssignCard(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.AssignCardToGroup(chi.URLParam(r, "id"), req.GroupID); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnassignCard handles POST /cards/{id}/unassign.
func (h *Handler) UnassignCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCardFromGroup(chi.URLParam(r, "id")); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkUpdateMetadata handles POST /cards/bulk/metadata.
func (h *Handler) BulkUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req BulkMetadataRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.BulkUpdateMetadata(req.CardIDs, req.Metadata); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
