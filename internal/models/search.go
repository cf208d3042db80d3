package models

// DateRange bounds the dateRange facet. Both bounds are calendar dates
// (YYYY-MM-DD), inclusive; an empty bound is unconstrained on that side.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// SearchFilters is one structured filter set. Each non-empty facet list is
// matched with OR semantics within the facet; facets combine with AND.
//
// Groups and CustomFields are persisted for saved searches but are not
// applied by the filter engine.
type SearchFilters struct {
	Tags         []string               `json:"tags"`
	Labels       []string               `json:"labels"`
	PointOfView  []string               `json:"pointOfView"`
	Locations    []string               `json:"locations"`
	Status       []string               `json:"status"`
	TimeType     []string               `json:"timeType"`
	DateRange    *DateRange             `json:"dateRange,omitempty"`
	Groups       []string               `json:"groups,omitempty"`
	CustomFields map[string]CustomValue `json:"customFields,omitempty"`
}

// IsEmpty reports whether no facet is active.
func (f SearchFilters) IsEmpty() bool {
	return len(f.Tags) == 0 &&
		len(f.Labels) == 0 &&
		len(f.PointOfView) == 0 &&
		len(f.Locations) == 0 &&
		len(f.Status) == 0 &&
		len(f.TimeType) == 0 &&
		(f.DateRange == nil || (f.DateRange.Start == "" && f.DateRange.End == ""))
}

// SearchQuery is a named, persisted (search text, filter set) pair,
// independent of any card or group.
type SearchQuery struct {
	ID      string        `json:"id"`
	Name    string        `json:"name,omitempty"`
	Text    string        `json:"text"`
	Filters SearchFilters `json:"filters"`
	Saved   bool          `json:"saved"`
}
