package timeline

import (
	"sort"

	"github.com/marlowe/fabula/internal/models"
)

// TimelineCards returns the display projection of the given cards: when
// every card carries an absolute date, the result is sorted by (date, time)
// ascending; otherwise the persisted order is kept. The projection is
// read-time only and never touches stored order fields.
func TimelineCards(cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	for _, c := range out {
		if _, ok := c.TimeInfo.AbsoluteDate(); !ok {
			return out
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, _ := out[i].TimeInfo.AbsoluteDate()
		dj, _ := out[j].TimeInfo.AbsoluteDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].TimeInfo.Absolute.Time < out[j].TimeInfo.Absolute.Time
	})
	return out
}

// TimelineView returns the display projection of the live card list.
func (s *Service) TimelineView() []models.Card {
	return TimelineCards(s.ListCards())
}

// UngroupedCards returns, in persisted order, every card that belongs to
// no group.
func (s *Service) UngroupedCards() []models.Card {
	all := s.ListCards()
	out := make([]models.Card, 0, len(all))
	for _, c := range all {
		if c.ParentID == "" {
			out = append(out, c)
		}
	}
	return out
}

// UniqueValues collects the distinct metadata values present across all
// cards, sorted, for populating filter controls.
type UniqueValues struct {
	Tags         []string `json:"tags"`
	Labels       []string `json:"labels"`
	PointOfViews []string `json:"pointOfViews"`
	Locations    []string `json:"locations"`
	Statuses     []string `json:"statuses"`
}

// CollectUniqueValues scans the live cards for distinct metadata values.
func (s *Service) CollectUniqueValues() UniqueValues {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := map[string]struct{}{}
	labels := map[string]struct{}{}
	povs := map[string]struct{}{}
	locations := map[string]struct{}{}
	statuses := map[string]struct{}{}

	for i := range s.cards {
		m := s.cards[i].Metadata
		for _, t := range m.Tags {
			tags[t] = struct{}{}
		}
		if m.Label != "" {
			labels[m.Label] = struct{}{}
		}
		if m.PointOfView != "" {
			povs[m.PointOfView] = struct{}{}
		}
		if m.Location != "" {
			locations[m.Location] = struct{}{}
		}
		statuses[string(m.Status)] = struct{}{}
	}

	return UniqueValues{
		Tags:         sortedKeys(tags),
		Labels:       sortedKeys(labels),
		PointOfViews: sortedKeys(povs),
		Locations:    sortedKeys(locations),
		Statuses:     sortedKeys(statuses),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
