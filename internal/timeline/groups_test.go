package timeline

import (
	"errors"
	"testing"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

func TestAddGroupDefaults(t *testing.T) {
	s := newTestService(t)
	g := mustAddGroup(t, s, "Act One")

	if g.Type != models.GroupCustom {
		t.Errorf("type = %q, want custom", g.Type)
	}
	if g.Order != 0 {
		t.Errorf("order = %d", g.Order)
	}
	if g.CardIDs == nil {
		t.Error("cardIds not initialized")
	}
}

func TestAddGroupRequiresTitle(t *testing.T) {
	s := newTestService(t)
	if _, err := s.AddGroup(GroupDraft{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestSingleGroupMembership(t *testing.T) {
	s := newTestService(t)
	g1 := mustAddGroup(t, s, "Act One")
	g2 := mustAddGroup(t, s, "Act Two")
	c := mustAddCard(t, s, "Opening")

	if err := s.AssignCardToGroup(c.ID, g1.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignCardToGroup(c.ID, g2.ID); err != nil {
		t.Fatal(err)
	}

	got1, _ := s.GetGroup(g1.ID)
	got2, _ := s.GetGroup(g2.ID)
	if len(got1.CardIDs) != 0 {
		t.Errorf("card is still in first group: %v", got1.CardIDs)
	}
	if !equalStrings(got2.CardIDs, []string{c.ID}) {
		t.Errorf("second group cardIds = %v", got2.CardIDs)
	}

	card, _ := s.GetCard(c.ID)
	if card.ParentID != g2.ID {
		t.Errorf("parentId = %q, want %q", card.ParentID, g2.ID)
	}
}

func TestAssignCardErrors(t *testing.T) {
	s := newTestService(t)
	g := mustAddGroup(t, s, "Act One")
	c := mustAddCard(t, s, "Opening")

	if err := s.AssignCardToGroup("ghost", g.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown card: err = %v", err)
	}
	if err := s.AssignCardToGroup(c.ID, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown group: err = %v", err)
	}
}

func TestRemoveCardFromGroup(t *testing.T) {
	s := newTestService(t)
	g := mustAddGroup(t, s, "Act One")
	c := mustAddCard(t, s, "Opening")
	if err := s.AssignCardToGroup(c.ID, g.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveCardFromGroup(c.ID); err != nil {
		t.Fatalf("RemoveCardFromGroup: %v", err)
	}

	card, _ := s.GetCard(c.ID)
	if card.ParentID != "" {
		t.Errorf("parentId = %q", card.ParentID)
	}
	got, _ := s.GetGroup(g.ID)
	if len(got.CardIDs) != 0 {
		t.Errorf("cardIds = %v", got.CardIDs)
	}
}

func TestDeleteGroupPreservesCards(t *testing.T) {
	s := newTestService(t)
	g1 := mustAddGroup(t, s, "Act One")
	g2 := mustAddGroup(t, s, "Act Two")
	a := mustAddCard(t, s, "A")
	b := mustAddCard(t, s, "B")
	if err := s.AssignCardToGroup(a.ID, g1.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignCardToGroup(b.ID, g1.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteGroup(g1.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}

	cards := s.ListCards()
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	for _, c := range cards {
		if c.ParentID != "" {
			t.Errorf("card %s still parented to %q", c.Title, c.ParentID)
		}
	}

	// Remaining group list is resequenced.
	groups := s.ListGroups()
	if len(groups) != 1 || groups[0].ID != g2.ID || groups[0].Order != 0 {
		t.Errorf("groups = %+v", groups)
	}
}

func TestDeleteGroupNotFound(t *testing.T) {
	s := newTestService(t)
	if err := s.DeleteGroup("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleGroupCollapse(t *testing.T) {
	s := newTestService(t)
	g := mustAddGroup(t, s, "Act One")

	got, err := s.ToggleGroupCollapse(g.ID)
	if err != nil {
		t.Fatalf("ToggleGroupCollapse: %v", err)
	}
	if !got.IsCollapsed {
		t.Error("first toggle should collapse")
	}
	got, _ = s.ToggleGroupCollapse(g.ID)
	if got.IsCollapsed {
		t.Error("second toggle should expand")
	}
}

func TestUpdateGroup(t *testing.T) {
	s := newTestService(t)
	g := mustAddGroup(t, s, "Act One")

	color := "#FF0000"
	typ := models.GroupChapter
	got, err := s.UpdateGroup(g.ID, GroupPatch{Color: &color, Type: &typ})
	if err != nil {
		t.Fatalf("UpdateGroup: %v", err)
	}
	if got.Color != color || got.Type != models.GroupChapter {
		t.Errorf("group = %+v", got)
	}
	if got.Title != "Act One" {
		t.Errorf("untouched title changed: %q", got.Title)
	}
}
