package timeline

import (
	"fmt"
	"sort"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// clamp bounds i to [0, n-1]. n must be positive.
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// MoveCardToPosition removes the card from its current position in the
// global list, reinserts it at the clamped target index, and resequences
// every order field. The relative order of all other cards is preserved.
func (s *Service) MoveCardToPosition(cardID string, target int) error {
	s.mu.Lock()
	sorted := s.cardsSortedLocked()
	from := -1
	for i := range sorted {
		if sorted[i].ID == cardID {
			from = i
			break
		}
	}
	if from == -1 {
		s.mu.Unlock()
		return fmt.Errorf("card %s: %w", cardID, apperr.ErrNotFound)
	}
	target = clamp(target, len(sorted))

	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:target], append([]models.Card{moved}, sorted[target:]...)...)

	now := s.now()
	for i := range sorted {
		sorted[i].Order = i
		if sorted[i].ID == cardID {
			sorted[i].UpdatedAt = now
		}
	}
	s.cards = sorted
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "reordered", ID: cardID})
	return nil
}

// MoveCardToTop moves the card to position 0.
func (s *Service) MoveCardToTop(cardID string) error {
	return s.MoveCardToPosition(cardID, 0)
}

// MoveCardToBottom moves the card to the last position.
func (s *Service) MoveCardToBottom(cardID string) error {
	s.mu.RLock()
	last := len(s.cards) - 1
	s.mu.RUnlock()
	return s.MoveCardToPosition(cardID, last)
}

// ReorderCards is the single-step reorder used by drag interactions: the
// item at dragIndex moves to hoverIndex. With a group id it reorders that
// group's membership list; otherwise it reorders the global card list and
// resequences order fields. Indices are clamped; an empty container is a
// no-op.
func (s *Service) ReorderCards(dragIndex, hoverIndex int, groupID string) error {
	s.mu.Lock()
	if groupID != "" {
		gi := s.groupIndexLocked(groupID)
		if gi == -1 {
			s.mu.Unlock()
			return fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		ids := s.groups[gi].CardIDs
		if len(ids) == 0 {
			s.mu.Unlock()
			return nil
		}
		dragIndex = clamp(dragIndex, len(ids))
		hoverIndex = clamp(hoverIndex, len(ids))
		moved := ids[dragIndex]
		ids = append(ids[:dragIndex], ids[dragIndex+1:]...)
		ids = append(ids[:hoverIndex], append([]string{moved}, ids[hoverIndex:]...)...)
		s.groups[gi].CardIDs = ids
		s.mu.Unlock()
		s.notify(ChangeEvent{Entity: "group", Action: "reordered", ID: groupID})
		return nil
	}

	if len(s.cards) == 0 {
		s.mu.Unlock()
		return nil
	}
	sorted := s.cardsSortedLocked()
	dragIndex = clamp(dragIndex, len(sorted))
	hoverIndex = clamp(hoverIndex, len(sorted))
	moved := sorted[dragIndex]
	sorted = append(sorted[:dragIndex], sorted[dragIndex+1:]...)
	sorted = append(sorted[:hoverIndex], append([]models.Card{moved}, sorted[hoverIndex:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	s.cards = sorted
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "reordered", ID: moved.ID})
	return nil
}

// InsertCardAfter creates a default-valued card immediately following the
// referenced card and resequences the global order.
func (s *Service) InsertCardAfter(afterID string) (models.Card, error) {
	s.mu.Lock()
	sorted := s.cardsSortedLocked()
	after := -1
	for i := range sorted {
		if sorted[i].ID == afterID {
			after = i
			break
		}
	}
	if after == -1 {
		s.mu.Unlock()
		return models.Card{}, fmt.Errorf("card %s: %w", afterID, apperr.ErrNotFound)
	}

	now := s.now()
	card := models.Card{
		ID:          s.newID(),
		Title:       "New Card",
		Description: "",
		Metadata: models.CardMetadata{
			Tags:         []string{},
			Status:       models.StatusDraft,
			CustomFields: map[string]models.CustomValue{},
		},
		TimeInfo: models.TimeInfo{
			Type: models.TimeAbsolute,
			Absolute: &models.AbsoluteTime{
				Date: now.Format(models.AbsoluteDateLayout),
				Time: now.Format("15:04"),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	sorted = append(sorted[:after+1], append([]models.Card{card}, sorted[after+1:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	s.cards = sorted
	out := card.Clone()
	out.Order = after + 1
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "created", ID: card.ID})
	return out, nil
}

// ReorderGroups mirrors ReorderCards for the top-level groups list.
func (s *Service) ReorderGroups(dragIndex, hoverIndex int) error {
	s.mu.Lock()
	if len(s.groups) == 0 {
		s.mu.Unlock()
		return nil
	}
	sorted := make([]models.Group, len(s.groups))
	copy(sorted, s.groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	dragIndex = clamp(dragIndex, len(sorted))
	hoverIndex = clamp(hoverIndex, len(sorted))
	moved := sorted[dragIndex]
	sorted = append(sorted[:dragIndex], sorted[dragIndex+1:]...)
	sorted = append(sorted[:hoverIndex], append([]models.Group{moved}, sorted[hoverIndex:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	s.groups = sorted
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "group", Action: "reordered", ID: moved.ID})
	return nil
}
