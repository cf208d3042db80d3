package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/fabula/internal/models"
)

// DefaultGroups seeds the classic three-act structure on first run.
func DefaultGroups() []models.Group {
	return []models.Group{
		{
			ID:          uuid.NewString(),
			Title:       "Act I - Setup",
			Description: "Introduction and setup of the story",
			Type:        models.GroupAct,
			Order:       0,
			Color:       "#3B82F6",
			CardIDs:     []string{},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Act II - Confrontation",
			Description: "Main conflict and development",
			Type:        models.GroupAct,
			Order:       1,
			Color:       "#8B5CF6",
			CardIDs:     []string{},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Act III - Resolution",
			Description: "Climax and resolution",
			Type:        models.GroupAct,
			Order:       2,
			Color:       "#10B981",
			CardIDs:     []string{},
		},
	}
}

// DefaultTemplates seeds three common scene templates.
func DefaultTemplates() []models.MetadataTemplate {
	return []models.MetadataTemplate{
		{
			ID:          uuid.NewString(),
			Name:        "Character Scene",
			Description: "Template for character-focused scenes",
			Fields: models.TemplateFields{
				Tags:   []string{"character-development"},
				Status: models.StatusDraft,
				CustomFields: map[string]models.CustomValue{
					"importance": models.StringValue("medium"),
				},
			},
		},
		{
			ID:          uuid.NewString(),
			Name:        "Action Sequence",
			Description: "Template for action scenes",
			Fields: models.TemplateFields{
				Tags:   []string{"action", "plot-critical"},
				Status: models.StatusDraft,
				CustomFields: map[string]models.CustomValue{
					"pacing":  models.StringValue("fast"),
					"tension": models.StringValue("high"),
				},
			},
		},
		{
			ID:          uuid.NewString(),
			Name:        "Dialogue Scene",
			Description: "Template for dialogue-heavy scenes",
			Fields: models.TemplateFields{
				Tags:   []string{"dialogue", "character-interaction"},
				Status: models.StatusDraft,
				CustomFields: map[string]models.CustomValue{
					"mood": models.StringValue("neutral"),
				},
			},
		},
	}
}

const welcomeNote = `Welcome to the Research & Notes section! This is your flexible workspace for:

• Research materials and sources
• Character backstories and development notes
• World-building details and lore
• Plot ideas and brainstorming
• General notes that don't fit into specific cards

You can organize your notes by categories, add tags for easy searching, and include links to external resources. This helps keep all your story planning materials in one place.

Feel free to edit or delete this note and start adding your own research and ideas!`

// DefaultNotes seeds a single welcome note.
func DefaultNotes(now time.Time) []models.ResearchNote {
	return []models.ResearchNote{
		{
			ID:        uuid.NewString(),
			Title:     "Getting Started with Research Notes",
			Content:   welcomeNote,
			Category:  models.CategoryGeneral,
			Tags:      []string{"tutorial", "getting-started"},
			Links:     []string{},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// DefaultSnapshot is the first-run dataset: no cards, three acts, three
// templates, no saved searches, one welcome note.
func DefaultSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Cards:     []models.Card{},
		Groups:    DefaultGroups(),
		Templates: DefaultTemplates(),
		Searches:  []models.SearchQuery{},
		Notes:     DefaultNotes(now),
	}
}
