// Package models defines the domain types for Fabula.
package models

import "time"

// Status is the editorial state of a card.
type Status string

// Card statuses.
const (
	StatusDraft    Status = "draft"
	StatusReview   Status = "review"
	StatusFinal    Status = "final"
	StatusArchived Status = "archived"
)

// Card is a single story beat with temporal and narrative metadata.
//
// Order is the dense zero-based index of the card within the global list;
// it forms a contiguous 0..N-1 sequence that is re-established after every
// insert, delete, and move. ParentID is a derived view of group membership:
// the owning group's CardIDs list is the source of truth.
type Card struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content,omitempty"`
	ParentID    string       `json:"parentId,omitempty"`
	Order       int          `json:"order"`
	Metadata    CardMetadata `json:"metadata"`
	TimeInfo    TimeInfo     `json:"timeInfo"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CardMetadata carries the narrative annotations of a card.
// Label, PointOfView and Location are optional free-form strings.
type CardMetadata struct {
	Tags         []string               `json:"tags"`
	Label        string                 `json:"label,omitempty"`
	PointOfView  string                 `json:"pointOfView,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Status       Status                 `json:"status"`
	CustomFields map[string]CustomValue `json:"customFields"`
}

// Clone returns a deep copy of the metadata.
func (m CardMetadata) Clone() CardMetadata {
	out := m
	out.Tags = append([]string(nil), m.Tags...)
	if m.CustomFields != nil {
		out.CustomFields = make(map[string]CustomValue, len(m.CustomFields))
		for k, v := range m.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return out
}

// HasTag reports whether the card carries the given tag.
func (m CardMetadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	out.Metadata = c.Metadata.Clone()
	out.TimeInfo = c.TimeInfo.Clone()
	return out
}
