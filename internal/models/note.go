package models

import "time"

// NoteCategory classifies a research note.
type NoteCategory string

// Research note categories.
const (
	CategoryResearch      NoteCategory = "research"
	CategoryIdeas         NoteCategory = "ideas"
	CategoryCharacters    NoteCategory = "characters"
	CategoryWorldbuilding NoteCategory = "worldbuilding"
	CategoryPlot          NoteCategory = "plot"
	CategoryGeneral       NoteCategory = "general"
)

// ResearchNote is a freestanding note entity with no relationship to cards
// or groups; notes are managed entirely independently.
type ResearchNote struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  NoteCategory `json:"category"`
	Tags      []string     `json:"tags"`
	Links     []string     `json:"links"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy of the note.
func (n ResearchNote) Clone() ResearchNote {
	out := n
	out.Tags = append([]string(nil), n.Tags...)
	out.Links = append([]string(nil), n.Links...)
	return out
}
