package backup

import (
	"fmt"
	"strings"
	"time"

	"github.com/marlowe/fabula/internal/models"
	"github.com/marlowe/fabula/internal/timeline"
)

// FormatTimeInfo renders a card's time placement for human-readable
// exports.
func FormatTimeInfo(t models.TimeInfo) string {
	switch t.Type {
	case models.TimeAbsolute:
		if t.Absolute == nil || t.Absolute.Date == "" {
			return "No date set"
		}
		d, err := time.Parse(models.AbsoluteDateLayout, t.Absolute.Date)
		if err != nil {
			return "No date set"
		}
		out := d.Format("Jan 02, 2006")
		if t.Absolute.Time != "" {
			out += " at " + t.Absolute.Time
		}
		return out
	case models.TimeRelative:
		if t.Relative == nil {
			return "Unknown time"
		}
		if t.Relative.Reference != "" {
			return fmt.Sprintf("%d %s after %s", t.Relative.Value, t.Relative.Unit, t.Relative.Reference)
		}
		return fmt.Sprintf("%d %s later", t.Relative.Value, t.Relative.Unit)
	case models.TimeStory:
		if t.Story == nil {
			return "Unknown time"
		}
		return fmt.Sprintf("%s %s", t.Story.Unit, t.Story.Value)
	default:
		return "Unknown time"
	}
}

// ExportText renders the snapshot as a flat, human-readable outline:
// header with counts, one section per group with its member cards in
// membership order, then the ungrouped cards. Export only; there is no
// corresponding import.
func ExportText(snap timeline.Snapshot, now time.Time) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "STORY TIMELINE EXPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("Jan 2, 2006 3:04 PM"))
	fmt.Fprintf(&b, "Total Cards: %d\n", len(snap.Cards))
	fmt.Fprintf(&b, "Total Groups: %d\n", len(snap.Groups))
	fmt.Fprintf(&b, "\n%s\n\n", strings.Repeat("=", 60))

	byID := make(map[string]models.Card, len(snap.Cards))
	for _, c := range snap.Cards {
		byID[c.ID] = c
	}

	for _, group := range snap.Groups {
		var members []models.Card
		for _, id := range group.CardIDs {
			if c, ok := byID[id]; ok {
				members = append(members, c)
			}
		}

		fmt.Fprintf(&b, "GROUP: %s\n", strings.ToUpper(group.Title))
		fmt.Fprintf(&b, "Type: %s\n", group.Type)
		fmt.Fprintf(&b, "Description: %s\n", group.Description)
		fmt.Fprintf(&b, "Cards: %d\n", len(members))
		fmt.Fprintf(&b, "%s\n\n", strings.Repeat("-", 40))

		for i, card := range members {
			writeCard(&b, i+1, card)
		}
		b.WriteString("\n")
	}

	var ungrouped []models.Card
	for _, c := range snap.Cards {
		if c.ParentID == "" {
			ungrouped = append(ungrouped, c)
		}
	}
	if len(ungrouped) > 0 {
		fmt.Fprintf(&b, "UNGROUPED CARDS\n")
		fmt.Fprintf(&b, "%s\n\n", strings.Repeat("-", 40))
		for i, card := range ungrouped {
			writeCard(&b, i+1, card)
		}
	}

	return []byte(b.String())
}

func writeCard(b *strings.Builder, n int, card models.Card) {
	fmt.Fprintf(b, "%d. %s\n", n, card.Title)
	fmt.Fprintf(b, "   Time: %s\n", FormatTimeInfo(card.TimeInfo))
	fmt.Fprintf(b, "   Status: %s\n", card.Metadata.Status)
	if card.Metadata.PointOfView != "" {
		fmt.Fprintf(b, "   POV: %s\n", card.Metadata.PointOfView)
	}
	if card.Metadata.Location != "" {
		fmt.Fprintf(b, "   Location: %s\n", card.Metadata.Location)
	}
	if len(card.Metadata.Tags) > 0 {
		fmt.Fprintf(b, "   Tags: %s\n", strings.Join(card.Metadata.Tags, ", "))
	}
	fmt.Fprintf(b, "   Description: %s\n", card.Description)
	if card.Content != "" {
		fmt.Fprintf(b, "   Content: %s\n", card.Content)
	}
	b.WriteString("\n")
}
