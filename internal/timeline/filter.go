package timeline

import (
	"strings"
	"time"

	"github.com/marlowe/fabula/internal/models"
)

// FilterCards returns the subset of cards matching the search text and
// every active facet. It is pure: input order is preserved, nothing is
// mutated, and there is no cached state; callers recompute on change.
//
// Search text matches case-insensitively as a substring against title,
// description, content, each tag, location and pointOfView (OR across
// fields). Facets combine with AND; values within a facet with OR. The
// optional scalar facets (labels, pointOfView, locations) only constrain
// cards that have the field set; the dateRange facet only constrains
// cards with an absolute date.
func FilterCards(cards []models.Card, searchText string, filters models.SearchFilters) []models.Card {
	if searchText == "" && filters.IsEmpty() {
		out := make([]models.Card, len(cards))
		copy(out, cards)
		return out
	}

	needle := strings.ToLower(searchText)
	var start, end time.Time
	var hasStart, hasEnd bool
	if filters.DateRange != nil {
		start, hasStart = parseDate(filters.DateRange.Start)
		end, hasEnd = parseDate(filters.DateRange.End)
	}

	out := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if needle != "" && !matchesSearch(card, needle) {
			continue
		}
		if len(filters.Tags) > 0 && !hasAnyTag(card.Metadata.Tags, filters.Tags) {
			continue
		}
		if len(filters.Status) > 0 && !contains(filters.Status, string(card.Metadata.Status)) {
			continue
		}
		if len(filters.Labels) > 0 && card.Metadata.Label != "" && !contains(filters.Labels, card.Metadata.Label) {
			continue
		}
		if len(filters.PointOfView) > 0 && card.Metadata.PointOfView != "" && !contains(filters.PointOfView, card.Metadata.PointOfView) {
			continue
		}
		if len(filters.Locations) > 0 && card.Metadata.Location != "" && !contains(filters.Locations, card.Metadata.Location) {
			continue
		}
		if len(filters.TimeType) > 0 && !contains(filters.TimeType, string(card.TimeInfo.Type)) {
			continue
		}
		if hasStart || hasEnd {
			if d, ok := card.TimeInfo.AbsoluteDate(); ok {
				if hasStart && d.Before(start) {
					continue
				}
				if hasEnd && d.After(end) {
					continue
				}
			}
			// Cards without an absolute date are unaffected by the
			// date range facet.
		}
		out = append(out, card)
	}
	return out
}

func matchesSearch(card models.Card, needle string) bool {
	if strings.Contains(strings.ToLower(card.Title), needle) ||
		strings.Contains(strings.ToLower(card.Description), needle) ||
		strings.Contains(strings.ToLower(card.Content), needle) ||
		strings.Contains(strings.ToLower(card.Metadata.Location), needle) ||
		strings.Contains(strings.ToLower(card.Metadata.PointOfView), needle) {
		return true
	}
	for _, tag := range card.Metadata.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func hasAnyTag(cardTags, facet []string) bool {
	for _, want := range facet {
		for _, have := range cardTags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(models.AbsoluteDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Filter applies FilterCards to the live card list in persisted order.
func (s *Service) Filter(searchText string, filters models.SearchFilters) []models.Card {
	return FilterCards(s.ListCards(), searchText, filters)
}
