package timeline

import (
	"testing"

	"github.com/marlowe/fabula/internal/models"
)

func filterFixture() []models.Card {
	return []models.Card{
		{
			ID: "1", Title: "The Heist", Description: "robbery at the vault", Order: 0,
			Metadata: models.CardMetadata{
				Tags: []string{"action", "night"}, Label: "setup",
				PointOfView: "Mara", Location: "Bank", Status: models.StatusDraft,
			},
			TimeInfo: models.TimeInfo{Type: models.TimeAbsolute, Absolute: &models.AbsoluteTime{Date: "2024-01-10"}},
		},
		{
			ID: "2", Title: "Aftermath", Description: "the morning after", Order: 1,
			Metadata: models.CardMetadata{
				Tags: []string{"quiet"}, PointOfView: "Jonas", Location: "Safehouse",
				Status: models.StatusFinal,
			},
			TimeInfo: models.TimeInfo{Type: models.TimeAbsolute, Absolute: &models.AbsoluteTime{Date: "2024-01-11"}},
		},
		{
			ID: "3", Title: "Flashback: the plan", Content: "they meet at the docks", Order: 2,
			Metadata: models.CardMetadata{Tags: []string{"action"}, Status: models.StatusDraft},
			TimeInfo: models.TimeInfo{Type: models.TimeRelative, Relative: &models.RelativeTime{Value: 2, Unit: models.UnitWeeks}},
		},
	}
}

func filterIDs(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	cards := filterFixture()
	got := FilterCards(cards, "", models.SearchFilters{})
	if !equalStrings(filterIDs(got), []string{"1", "2", "3"}) {
		t.Errorf("identity filter changed the set: %v", filterIDs(got))
	}
}

func TestFilterSearchTextAcrossFields(t *testing.T) {
	cards := filterFixture()

	tests := []struct {
		needle string
		want   []string
	}{
		{"heist", []string{"1"}},        // title, case-insensitive
		{"morning", []string{"2"}},      // description
		{"docks", []string{"3"}},        // content
		{"night", []string{"1"}},        // tag
		{"safehouse", []string{"2"}},    // location
		{"mara", []string{"1"}},         // point of view
		{"nothing-here", []string{}},    // no match
		{"a", []string{"1", "2", "3"}},  // substring everywhere
	}
	for _, tt := range tests {
		got := filterIDs(FilterCards(cards, tt.needle, models.SearchFilters{}))
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !equalStrings(got, tt.want) {
			t.Errorf("search %q = %v, want %v", tt.needle, got, tt.want)
		}
	}
}

func TestFilterTagsAnyOf(t *testing.T) {
	cards := filterFixture()
	got := FilterCards(cards, "", models.SearchFilters{Tags: []string{"night", "quiet"}})
	if !equalStrings(filterIDs(got), []string{"1", "2"}) {
		t.Errorf("tags any-of = %v, want [1 2]", filterIDs(got))
	}
}

func TestFilterFacetsCombineWithAnd(t *testing.T) {
	cards := filterFixture()
	got := FilterCards(cards, "", models.SearchFilters{
		Tags:   []string{"action"},
		Status: []string{"draft"},
	})
	if !equalStrings(filterIDs(got), []string{"1", "3"}) {
		t.Errorf("AND facets = %v, want [1 3]", filterIDs(got))
	}

	got = FilterCards(cards, "heist", models.SearchFilters{Status: []string{"final"}})
	if len(got) != 0 {
		t.Errorf("search AND status = %v, want empty", filterIDs(got))
	}
}

func TestFilterOptionalScalarSkipsUnsetCards(t *testing.T) {
	cards := filterFixture()
	// Card 3 has no pointOfView; the facet must not exclude it.
	got := FilterCards(cards, "", models.SearchFilters{PointOfView: []string{"Mara"}})
	if !equalStrings(filterIDs(got), []string{"1", "3"}) {
		t.Errorf("pov facet = %v, want [1 3]", filterIDs(got))
	}

	// Same for location.
	got = FilterCards(cards, "", models.SearchFilters{Locations: []string{"Bank"}})
	if !equalStrings(filterIDs(got), []string{"1", "3"}) {
		t.Errorf("location facet = %v, want [1 3]", filterIDs(got))
	}
}

func TestFilterTimeType(t *testing.T) {
	cards := filterFixture()
	got := FilterCards(cards, "", models.SearchFilters{TimeType: []string{"relative"}})
	if !equalStrings(filterIDs(got), []string{"3"}) {
		t.Errorf("timeType = %v, want [3]", filterIDs(got))
	}
}

func TestFilterDateRange(t *testing.T) {
	cards := filterFixture()

	// Inclusive bounds; the relative-dated card 3 passes untouched.
	got := FilterCards(cards, "", models.SearchFilters{
		DateRange: &models.DateRange{Start: "2024-01-11", End: "2024-01-31"},
	})
	if !equalStrings(filterIDs(got), []string{"2", "3"}) {
		t.Errorf("dateRange = %v, want [2 3]", filterIDs(got))
	}

	// Open-ended end.
	got = FilterCards(cards, "", models.SearchFilters{
		DateRange: &models.DateRange{End: "2024-01-10"},
	})
	if !equalStrings(filterIDs(got), []string{"1", "3"}) {
		t.Errorf("open start = %v, want [1 3]", filterIDs(got))
	}
}

func TestFilterIsMonotone(t *testing.T) {
	cards := filterFixture()
	loose := FilterCards(cards, "", models.SearchFilters{Tags: []string{"action"}})
	tight := FilterCards(cards, "", models.SearchFilters{Tags: []string{"action"}, Status: []string{"draft"}})
	if len(tight) > len(loose) {
		t.Errorf("adding a facet grew the result: %d > %d", len(tight), len(loose))
	}
	inLoose := make(map[string]bool)
	for _, c := range loose {
		inLoose[c.ID] = true
	}
	for _, c := range tight {
		if !inLoose[c.ID] {
			t.Errorf("card %s appears only in the tighter result", c.ID)
		}
	}
}

func TestFilterPreservesInputOrderAndInput(t *testing.T) {
	cards := filterFixture()
	got := FilterCards(cards, "", models.SearchFilters{Status: []string{"draft"}})
	if !equalStrings(filterIDs(got), []string{"1", "3"}) {
		t.Errorf("order not preserved: %v", filterIDs(got))
	}
	if cards[0].ID != "1" || len(cards) != 3 {
		t.Error("input slice was mutated")
	}
}
