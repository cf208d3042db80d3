package models

// GroupType classifies a group of cards.
type GroupType string

// Group types.
const (
	GroupAct     GroupType = "act"
	GroupChapter GroupType = "chapter"
	GroupEvent   GroupType = "event"
	GroupCustom  GroupType = "custom"
)

// Group is a named, ordered container of cards (an act, chapter, event or
// custom bucket). CardIDs is the ordered membership list and the source of
// truth for which cards belong to the group; member cards expose the same
// relationship through their derived ParentID field.
//
// Order is the dense zero-based index of the group among all groups.
// Color and IsCollapsed are display hints with no semantic weight.
type Group struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        GroupType `json:"type"`
	IsCollapsed bool      `json:"isCollapsed"`
	Order       int       `json:"order"`
	Color       string    `json:"color"`
	CardIDs     []string  `json:"cardIds"`
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	out.CardIDs = append([]string(nil), g.CardIDs...)
	return out
}

// Contains reports whether the group's membership list holds the card id.
func (g Group) Contains(cardID string) bool {
	for _, id := range g.CardIDs {
		if id == cardID {
			return true
		}
	}
	return false
}
