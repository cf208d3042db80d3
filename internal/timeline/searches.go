package timeline

import (
	"fmt"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// SaveSearch persists a named (search text, filter set) pair.
func (s *Service) SaveSearch(name, text string, filters models.SearchFilters) (models.SearchQuery, error) {
	if name == "" {
		return models.SearchQuery{}, fmt.Errorf("search name is required: %w", apperr.ErrInvalid)
	}

	s.mu.Lock()
	q := models.SearchQuery{
		ID:      s.newID(),
		Name:    name,
		Text:    text,
		Filters: filters,
		Saved:   true,
	}
	s.searches = append(s.searches, q)
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "search", Action: "created", ID: q.ID})
	return q, nil
}

// ListSearches returns copies of all saved searches.
func (s *Service) ListSearches() []models.SearchQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SearchQuery, len(s.searches))
	copy(out, s.searches)
	return out
}

// DeleteSearch removes a saved search.
func (s *Service) DeleteSearch(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.searches {
		if s.searches[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fmt.Errorf("search %s: %w", id, apperr.ErrNotFound)
	}
	s.searches = append(s.searches[:idx], s.searches[idx+1:]...)
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "search", Action: "deleted", ID: id})
	return nil
}
