package timeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/marlowe/fabula/internal/models"
)

// newTestService builds a Service with a deterministic clock and id
// sequence (id-1, id-2, ...).
func newTestService(t *testing.T) *Service {
	t.Helper()
	n := 0
	return NewService(
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func mustAddCard(t *testing.T, s *Service, title string) models.Card {
	t.Helper()
	card, err := s.AddCard(CardDraft{Title: title})
	if err != nil {
		t.Fatalf("AddCard(%q): %v", title, err)
	}
	return card
}

func mustAddGroup(t *testing.T, s *Service, title string) models.Group {
	t.Helper()
	group, err := s.AddGroup(GroupDraft{Title: title})
	if err != nil {
		t.Fatalf("AddGroup(%q): %v", title, err)
	}
	return group
}

// checkDenseOrder fails unless the cards, sorted by order, carry exactly
// 0..N-1.
func checkDenseOrder(t *testing.T, cards []models.Card) {
	t.Helper()
	for i, c := range cards {
		if c.Order != i {
			t.Errorf("card %s at position %d has order %d", c.ID, i, c.Order)
		}
	}
}

func cardTitles(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
