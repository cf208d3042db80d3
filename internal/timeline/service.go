// Package timeline holds the authoritative in-memory planner state and the
// mutation, ordering, membership and filtering operations over it.
package timeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/fabula/internal/models"
)

// ChangeEvent describes one committed mutation, for autosave scheduling and
// event-stream broadcasting.
type ChangeEvent struct {
	Entity string // "card", "group", "template", "search", "note", "snapshot"
	Action string // "created", "updated", "deleted", "reordered", "replaced"
	ID     string // entity id, empty for whole-collection actions
}

// ChangeListener receives committed change events. It is called after the
// state lock is released.
type ChangeListener func(ChangeEvent)

// Service owns the planner collections. All reads and mutations go through
// its methods; mutations run to completion under the state lock, so every
// invariant (dense order indices, single group membership) holds whenever
// the lock is free.
type Service struct {
	mu        sync.RWMutex
	cards     []models.Card
	groups    []models.Group
	templates []models.MetadataTemplate
	searches  []models.SearchQuery
	notes     []models.ResearchNote

	// owner maps card id -> owning group id. It is rebuilt from the
	// groups' CardIDs lists on load and maintained by every membership
	// mutation; Card.ParentID is kept in lockstep under the same lock.
	owner map[string]string

	now      func() time.Time
	newID    func() string
	listener ChangeListener
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the identity generator (tests).
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates an empty Service. Seed it with Load or Replace.
func NewService(opts ...Option) *Service {
	s := &Service{
		owner: make(map[string]string),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetChangeListener registers the single change listener. Pass nil to
// remove it. Not safe to call concurrently with mutations; wire it up
// during startup.
func (s *Service) SetChangeListener(l ChangeListener) {
	s.listener = l
}

func (s *Service) notify(ev ChangeEvent) {
	if s.listener != nil {
		s.listener(ev)
	}
}

// rebuildOwnerLocked recomputes the owner index from the groups' CardIDs
// lists and synchronizes every card's derived ParentID. Membership entries
// pointing at unknown cards are dropped.
func (s *Service) rebuildOwnerLocked() {
	byID := make(map[string]int, len(s.cards))
	for i := range s.cards {
		byID[s.cards[i].ID] = i
	}

	s.owner = make(map[string]string, len(s.cards))
	for gi := range s.groups {
		g := &s.groups[gi]
		kept := g.CardIDs[:0]
		for _, cardID := range g.CardIDs {
			if _, ok := byID[cardID]; !ok {
				continue
			}
			// First group wins; a card listed twice stays with its
			// first owner.
			if _, taken := s.owner[cardID]; taken {
				continue
			}
			s.owner[cardID] = g.ID
			kept = append(kept, cardID)
		}
		g.CardIDs = kept
	}

	for i := range s.cards {
		s.cards[i].ParentID = s.owner[s.cards[i].ID]
	}
}

// resequenceCardsLocked re-establishes the dense 0..N-1 order sequence of
// the global card list in its current slice order.
func (s *Service) resequenceCardsLocked() {
	for i := range s.cards {
		s.cards[i].Order = i
	}
}

// resequenceGroupsLocked does the same for the groups list.
func (s *Service) resequenceGroupsLocked() {
	for i := range s.groups {
		s.groups[i].Order = i
	}
}

func (s *Service) cardIndexLocked(id string) int {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) groupIndexLocked(id string) int {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return i
		}
	}
	return -1
}
