package timeline

import (
	"fmt"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// GroupDraft is the caller-supplied part of a new group.
type GroupDraft struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        models.GroupType `json:"type"`
	Color       string           `json:"color"`
	IsCollapsed bool             `json:"isCollapsed"`
}

// GroupPatch updates selected group fields. Nil fields are left untouched.
type GroupPatch struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Type        *models.GroupType `json:"type,omitempty"`
	Color       *string           `json:"color,omitempty"`
	IsCollapsed *bool             `json:"isCollapsed,omitempty"`
}

// AddGroup appends a new empty group to the end of the groups list.
func (s *Service) AddGroup(d GroupDraft) (models.Group, error) {
	if d.Title == "" {
		return models.Group{}, fmt.Errorf("group title is required: %w", apperr.ErrInvalid)
	}
	typ := d.Type
	if typ == "" {
		typ = models.GroupCustom
	}

	s.mu.Lock()
	group := models.Group{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Type:        typ,
		Color:       d.Color,
		IsCollapsed: d.IsCollapsed,
		Order:       len(s.groups),
		CardIDs:     []string{},
	}
	s.groups = append(s.groups, group)
	out := group.Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "group", Action: "created", ID: group.ID})
	return out, nil
}

// GetGroup returns a copy of the group with the given id.
func (s *Service) GetGroup(id string) (models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.groupIndexLocked(id)
	if i == -1 {
		return models.Group{}, fmt.Errorf("group %s: %w", id, apperr.ErrNotFound)
	}
	return s.groups[i].Clone(), nil
}

// ListGroups returns copies of all groups in their persisted order.
func (s *Service) ListGroups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Group, len(s.groups))
	for i := range s.groups {
		out[i] = s.groups[i].Clone()
	}
	return out
}

// UpdateGroup patches the group's descriptive fields.
func (s *Service) UpdateGroup(id string, p GroupPatch) (models.Group, error) {
	s.mu.Lock()
	i := s.groupIndexLocked(id)
	if i == -1 {
		s.mu.Unlock()
		return models.Group{}, fmt.Errorf("group %s: %w", id, apperr.ErrNotFound)
	}
	if p.Title != nil && *p.Title == "" {
		s.mu.Unlock()
		return models.Group{}, fmt.Errorf("group title is required: %w", apperr.ErrInvalid)
	}

	g := &s.groups[i]
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.IsCollapsed != nil {
		g.IsCollapsed = *p.IsCollapsed
	}
	out := g.Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "group", Action: "updated", ID: id})
	return out, nil
}

// ToggleGroupCollapse flips the group's collapsed view state.
func (s *Service) ToggleGroupCollapse(id string) (models.Group, error) {
	s.mu.Lock()
	i := s.groupIndexLocked(id)
	if i == -1 {
		s.mu.Unlock()
		return models.Group{}, fmt.Errorf("group %s: %w", id, apperr.ErrNotFound)
	}
	s.groups[i].IsCollapsed = !s.groups[i].IsCollapsed
	out := s.groups[i].Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "group", Action: "updated", ID: id})
	return out, nil
}

// DeleteGroup removes the group and clears the derived parent of every
// member card. Member cards themselves are never deleted.
func (s *Service) DeleteGroup(id string) error {
	s.mu.Lock()
	i := s.groupIndexLocked(id)
	if i == -1 {
		s.mu.Unlock()
		return fmt.Errorf("group %s: %w", id, apperr.ErrNotFound)
	}
	for _, cardID := range s.groups[i].CardIDs {
		delete(s.owner, cardID)
		if ci := s.cardIndexLocked(cardID); ci != -1 {
			s.cards[ci].ParentID = ""
		}
	}
	s.groups = append(s.groups[:i], s.groups[i+1:]...)
	s.resequenceGroupsLocked()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "group", Action: "deleted", ID: id})
	return nil
}

// AssignCardToGroup moves the card into the target group, removing it from
// any previous group first. Membership and the card's derived ParentID
// change together under the state lock.
func (s *Service) AssignCardToGroup(cardID, groupID string) error {
	s.mu.Lock()
	if s.cardIndexLocked(cardID) == -1 {
		s.mu.Unlock()
		return fmt.Errorf("card %s: %w", cardID, apperr.ErrNotFound)
	}
	if s.groupIndexLocked(groupID) == -1 {
		s.mu.Unlock()
		return fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
	}
	s.assignLocked(cardID, groupID)
	if ci := s.cardIndexLocked(cardID); ci != -1 {
		s.cards[ci].UpdatedAt = s.now()
	}
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "updated", ID: cardID})
	return nil
}

// RemoveCardFromGroup detaches the card from its owning group, if any.
func (s *Service) RemoveCardFromGroup(cardID string) error {
	s.mu.Lock()
	ci := s.cardIndexLocked(cardID)
	if ci == -1 {
		s.mu.Unlock()
		return fmt.Errorf("card %s: %w", cardID, apperr.ErrNotFound)
	}
	s.unassignLocked(cardID)
	s.cards[ci].UpdatedAt = s.now()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "updated", ID: cardID})
	return nil
}

// assignLocked enforces single membership: the card leaves every group's
// CardIDs list, joins the target group at the end, and its ParentID and the
// owner index follow.
func (s *Service) assignLocked(cardID, groupID string) {
	s.removeFromGroupsLocked(cardID)
	gi := s.groupIndexLocked(groupID)
	if gi == -1 {
		return
	}
	s.groups[gi].CardIDs = append(s.groups[gi].CardIDs, cardID)
	s.owner[cardID] = groupID
	if ci := s.cardIndexLocked(cardID); ci != -1 {
		s.cards[ci].ParentID = groupID
	}
}

// unassignLocked clears membership everywhere.
func (s *Service) unassignLocked(cardID string) {
	s.removeFromGroupsLocked(cardID)
	delete(s.owner, cardID)
	if ci := s.cardIndexLocked(cardID); ci != -1 {
		s.cards[ci].ParentID = ""
	}
}

func (s *Service) removeFromGroupsLocked(cardID string) {
	for gi := range s.groups {
		ids := s.groups[gi].CardIDs
		for i, id := range ids {
			if id == cardID {
				s.groups[gi].CardIDs = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
}
