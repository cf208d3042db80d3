package timeline

import (
	"fmt"
	"sort"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// CardDraft is the caller-supplied part of a new card. ID, order and
// timestamps are assigned by the service.
type CardDraft struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Content     string              `json:"content,omitempty"`
	ParentID    string              `json:"parentId,omitempty"`
	Metadata    models.CardMetadata `json:"metadata"`
	TimeInfo    models.TimeInfo     `json:"timeInfo"`
}

// CardPatch updates selected card fields. Nil fields are left untouched.
// ParentID pointing at the empty string removes the card from its group.
type CardPatch struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Content     *string              `json:"content,omitempty"`
	ParentID    *string              `json:"parentId,omitempty"`
	Metadata    *models.CardMetadata `json:"metadata,omitempty"`
	TimeInfo    *models.TimeInfo     `json:"timeInfo,omitempty"`
}

// MetadataPatch updates selected metadata fields on a bulk selection.
// Tags, when non-nil, replaces the tag list; CustomFields merge key-by-key.
type MetadataPatch struct {
	Tags         []string                      `json:"tags,omitempty"`
	Label        *string                       `json:"label,omitempty"`
	PointOfView  *string                       `json:"pointOfView,omitempty"`
	Location     *string                       `json:"location,omitempty"`
	Status       *models.Status                `json:"status,omitempty"`
	CustomFields map[string]models.CustomValue `json:"customFields,omitempty"`
}

// AddCard appends a new card to the end of the global list and, when the
// draft names a parent group, files it into that group's membership list.
func (s *Service) AddCard(d CardDraft) (models.Card, error) {
	if d.Title == "" {
		return models.Card{}, fmt.Errorf("card title is required: %w", apperr.ErrInvalid)
	}

	s.mu.Lock()
	if d.ParentID != "" && s.groupIndexLocked(d.ParentID) == -1 {
		s.mu.Unlock()
		return models.Card{}, fmt.Errorf("group %s: %w", d.ParentID, apperr.ErrNotFound)
	}

	now := s.now()
	card := models.Card{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Order:       len(s.cards),
		Metadata:    normalizeMetadata(d.Metadata),
		TimeInfo:    d.TimeInfo.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.cards = append(s.cards, card)
	if d.ParentID != "" {
		s.assignLocked(card.ID, d.ParentID)
	}
	out := s.cards[s.cardIndexLocked(card.ID)].Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "created", ID: card.ID})
	return out, nil
}

// GetCard returns a copy of the card with the given id.
func (s *Service) GetCard(id string) (models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.cardIndexLocked(id)
	if i == -1 {
		return models.Card{}, fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
	}
	return s.cards[i].Clone(), nil
}

// ListCards returns copies of all cards sorted by their persisted order.
func (s *Service) ListCards() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cardsSortedLocked()
}

func (s *Service) cardsSortedLocked() []models.Card {
	out := make([]models.Card, len(s.cards))
	for i := range s.cards {
		out[i] = s.cards[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// UpdateCard patches the card and refreshes its updatedAt timestamp.
// A ParentID in the patch reassigns group membership (empty = ungroup).
func (s *Service) UpdateCard(id string, p CardPatch) (models.Card, error) {
	s.mu.Lock()
	i := s.cardIndexLocked(id)
	if i == -1 {
		s.mu.Unlock()
		return models.Card{}, fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
	}
	if p.ParentID != nil && *p.ParentID != "" && s.groupIndexLocked(*p.ParentID) == -1 {
		s.mu.Unlock()
		return models.Card{}, fmt.Errorf("group %s: %w", *p.ParentID, apperr.ErrNotFound)
	}
	if p.Title != nil && *p.Title == "" {
		s.mu.Unlock()
		return models.Card{}, fmt.Errorf("card title is required: %w", apperr.ErrInvalid)
	}

	card := &s.cards[i]
	if p.Title != nil {
		card.Title = *p.Title
	}
	if p.Description != nil {
		card.Description = *p.Description
	}
	if p.Content != nil {
		card.Content = *p.Content
	}
	if p.Metadata != nil {
		card.Metadata = normalizeMetadata(*p.Metadata)
	}
	if p.TimeInfo != nil {
		card.TimeInfo = p.TimeInfo.Clone()
	}
	if p.ParentID != nil {
		if *p.ParentID == "" {
			s.unassignLocked(id)
		} else {
			s.assignLocked(id, *p.ParentID)
		}
	}
	card.UpdatedAt = s.now()
	out := card.Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "updated", ID: id})
	return out, nil
}

// DeleteCard removes the card from the global list and from whichever
// group's membership list contains it, then resequences the global order.
func (s *Service) DeleteCard(id string) error {
	s.mu.Lock()
	i := s.cardIndexLocked(id)
	if i == -1 {
		s.mu.Unlock()
		return fmt.Errorf("card %s: %w", id, apperr.ErrNotFound)
	}
	s.unassignLocked(id)
	s.cards = append(s.cards[:i], s.cards[i+1:]...)
	s.resequenceCardsLocked()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "deleted", ID: id})
	return nil
}

// BulkUpdateMetadata patches the metadata of every listed card and
// refreshes their updatedAt timestamps. Unknown ids in the selection are
// reported; known ids are still updated.
func (s *Service) BulkUpdateMetadata(cardIDs []string, p MetadataPatch) error {
	s.mu.Lock()
	now := s.now()
	var missing []string
	for _, id := range cardIDs {
		i := s.cardIndexLocked(id)
		if i == -1 {
			missing = append(missing, id)
			continue
		}
		card := &s.cards[i]
		m := card.Metadata.Clone()
		if p.Tags != nil {
			m.Tags = append([]string(nil), p.Tags...)
		}
		if p.Label != nil {
			m.Label = *p.Label
		}
		if p.PointOfView != nil {
			m.PointOfView = *p.PointOfView
		}
		if p.Location != nil {
			m.Location = *p.Location
		}
		if p.Status != nil {
			m.Status = *p.Status
		}
		if len(p.CustomFields) > 0 {
			if m.CustomFields == nil {
				m.CustomFields = make(map[string]models.CustomValue, len(p.CustomFields))
			}
			for k, v := range p.CustomFields {
				m.CustomFields[k] = v
			}
		}
		card.Metadata = m
		card.UpdatedAt = now
	}
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "updated"})
	if len(missing) > 0 {
		return fmt.Errorf("cards %v: %w", missing, apperr.ErrNotFound)
	}
	return nil
}

// normalizeMetadata fills nil collections so that persisted JSON always
// carries [] and {} rather than null.
func normalizeMetadata(m models.CardMetadata) models.CardMetadata {
	out := m.Clone()
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.CustomFields == nil {
		out.CustomFields = map[string]models.CustomValue{}
	}
	if out.Status == "" {
		out.Status = models.StatusDraft
	}
	return out
}
