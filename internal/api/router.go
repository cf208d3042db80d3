package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marlowe/fabula/internal/timeline"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *timeline.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Cards.
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/timeline", h.TimelineView)
	r.Get("/cards/ungrouped", h.UngroupedCards)
	r.Get("/cards/values", h.UniqueValues)
	r.Post("/cards/reorder", h.ReorderCards)
	r.Post("/cards/insert-after", h.InsertCardAfter)
	r.Post("/cards/bulk/metadata", h.BulkUpdateMetadata)
	r.Get("/cards/{id}", h.GetCard)
	r.Patch("/cards/{id}", h.UpdateCard)
	r.Delete("/cards/{id}", h.DeleteCard)
	r.Post("/cards/{id}/move", h.MoveCard)
	r.Post("/cards/{id}/top", h.MoveCardToTop)
	r.Post("/cards/{id}/bottom", h.MoveCardToBottom)
	r.Post("/cards/{id}/assign", h.AssignCard)
	r.Post("/cards/{id}/unassign", h.UnassignCard)

	// Groups.
	r.Get("/groups", h.ListGroups)
	r.Post("/groups", h.CreateGroup)
	r.Post("/groups/reorder", h.ReorderGroups)
	r.Get("/groups/{id}", h.GetGroup)
	r.Patch("/groups/{id}", h.UpdateGroup)
	r.Delete("/groups/{id}", h.DeleteGroup)
	r.Post("/groups/{id}/collapse", h.ToggleGroupCollapse)

	// Metadata templates.
	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.CreateTemplate)
	r.Delete("/templates/{id}", h.DeleteTemplate)
	r.Post("/templates/{id}/apply", h.ApplyTemplate)

	// Saved searches.
	r.Get("/searches", h.ListSearches)
	r.Post("/searches", h.SaveSearch)
	r.Delete("/searches/{id}", h.DeleteSearch)

	// Research notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Backup.
	r.Get("/backup/export", h.ExportBackup)
	r.Get("/backup/export/text", h.ExportText)
	r.Post("/backup/import", h.ImportBackup)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
