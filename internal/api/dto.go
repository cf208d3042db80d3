package api

import (
	"net/url"
	"strings"

	"github.com/marlowe/fabula/internal/models"
	"github.com/marlowe/fabula/internal/timeline"
)

// MoveRequest targets a position in the global card list.
type MoveRequest struct {
	Position int `json:"position"`
}

// ReorderRequest is the single-step drag reorder. An empty GroupID
// reorders the global list; otherwise the group's membership list.
type ReorderRequest struct {
	DragIndex  int    `json:"dragIndex"`
	HoverIndex int    `json:"hoverIndex"`
	GroupID    string `json:"groupId,omitempty"`
}

// InsertAfterRequest creates a default card following the referenced one.
type InsertAfterRequest struct {
	AfterID string `json:"afterId"`
}

// AssignRequest files a card into a group.
type AssignRequest struct {
	GroupID string `json:"groupId"`
}

// BulkMetadataRequest patches metadata on a selection of cards.
type BulkMetadataRequest struct {
	CardIDs  []string               `json:"cardIds"`
	Metadata timeline.MetadataPatch `json:"metadata"`
}

// ApplyTemplateRequest applies a metadata template to a selection.
type ApplyTemplateRequest struct {
	CardIDs []string `json:"cardIds"`
}

// SaveSearchRequest persists a named search.
type SaveSearchRequest struct {
	Name    string               `json:"name"`
	Text    string               `json:"text"`
	Filters models.SearchFilters `json:"filters"`
}

// CardListResponse wraps card listings.
type CardListResponse struct {
	Cards []models.Card `json:"cards"`
	Total int           `json:"total"`
}

// GroupListResponse wraps group listings.
type GroupListResponse struct {
	Groups []models.Group `json:"groups"`
	Total  int            `json:"total"`
}

// filtersFromQuery decodes the filter facets from URL query parameters.
// List facets accept comma-separated values ("?tags=a,b") and repeated
// parameters ("?tags=a&tags=b").
func filtersFromQuery(q url.Values) models.SearchFilters {
	f := models.SearchFilters{
		Tags:        queryList(q, "tags"),
		Labels:      queryList(q, "labels"),
		PointOfView: queryList(q, "pointOfView"),
		Locations:   queryList(q, "locations"),
		Status:      queryList(q, "status"),
		TimeType:    queryList(q, "timeType"),
	}
	start, end := q.Get("from"), q.Get("to")
	if start != "" || end != "" {
		f.DateRange = &models.DateRange{Start: start, End: end}
	}
	return f
}

func queryList(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
