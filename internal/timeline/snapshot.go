package timeline

import (
	"sort"

	"github.com/marlowe/fabula/internal/models"
)

// Snapshot is a consistent copy of every persisted collection. The JSON
// field names match the backup document's data object.
type Snapshot struct {
	Cards     []models.Card             `json:"cards"`
	Groups    []models.Group            `json:"groups"`
	Templates []models.MetadataTemplate `json:"metadataTemplates"`
	Searches  []models.SearchQuery      `json:"savedSearches"`
	Notes     []models.ResearchNote     `json:"researchNotes"`
}

// Snapshot returns a deep copy of the live state, cards and groups sorted
// by their persisted order and parent ids filled in from the owner index.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Cards:     make([]models.Card, len(s.cards)),
		Groups:    make([]models.Group, len(s.groups)),
		Templates: make([]models.MetadataTemplate, len(s.templates)),
		Searches:  make([]models.SearchQuery, len(s.searches)),
		Notes:     make([]models.ResearchNote, len(s.notes)),
	}
	for i := range s.cards {
		snap.Cards[i] = s.cards[i].Clone()
	}
	for i := range s.groups {
		snap.Groups[i] = s.groups[i].Clone()
	}
	copy(snap.Templates, s.templates)
	copy(snap.Searches, s.searches)
	for i := range s.notes {
		snap.Notes[i] = s.notes[i].Clone()
	}
	sort.SliceStable(snap.Cards, func(i, j int) bool { return snap.Cards[i].Order < snap.Cards[j].Order })
	sort.SliceStable(snap.Groups, func(i, j int) bool { return snap.Groups[i].Order < snap.Groups[j].Order })
	return snap
}

// Replace swaps in a whole new dataset (import, external reload). The
// incoming collections are normalized: cards and groups sorted by order
// and resequenced densely, the owner index rebuilt from the groups'
// membership lists, and derived parent ids synchronized.
func (s *Service) Replace(snap Snapshot) {
	s.mu.Lock()
	s.cards = make([]models.Card, len(snap.Cards))
	for i := range snap.Cards {
		s.cards[i] = snap.Cards[i].Clone()
	}
	s.groups = make([]models.Group, len(snap.Groups))
	for i := range snap.Groups {
		s.groups[i] = snap.Groups[i].Clone()
	}
	s.templates = append([]models.MetadataTemplate(nil), snap.Templates...)
	s.searches = append([]models.SearchQuery(nil), snap.Searches...)
	s.notes = make([]models.ResearchNote, len(snap.Notes))
	for i := range snap.Notes {
		s.notes[i] = snap.Notes[i].Clone()
	}

	sort.SliceStable(s.cards, func(i, j int) bool { return s.cards[i].Order < s.cards[j].Order })
	sort.SliceStable(s.groups, func(i, j int) bool { return s.groups[i].Order < s.groups[j].Order })
	s.resequenceCardsLocked()
	s.resequenceGroupsLocked()
	s.rebuildOwnerLocked()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "snapshot", Action: "replaced"})
}
