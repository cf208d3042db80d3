// Package backup implements the versioned JSON envelope used for full
// export and import of the planner collections, plus the one-way
// plain-text export.
package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/marlowe/fabula/internal/timeline"
	"github.com/marlowe/fabula/internal/validate"
)

// Version of the backup document format.
const Version = "1.0"

// Counts summarizes the exported collections.
type Counts struct {
	TotalCards     int `json:"totalCards"`
	TotalGroups    int `json:"totalGroups"`
	TotalNotes     int `json:"totalNotes"`
	TotalTemplates int `json:"totalTemplates"`
	TotalSearches  int `json:"totalSearches"`
}

// Envelope is the backup document: a versioned wrapper around every
// collection plus simple counts.
type Envelope struct {
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Data      timeline.Snapshot `json:"data"`
	Metadata  Counts            `json:"metadata"`
}

// Export renders the snapshot as an indented backup document.
func Export(snap timeline.Snapshot, now time.Time) ([]byte, error) {
	env := Envelope{
		Version:   Version,
		Timestamp: now,
		Data:      snap,
		Metadata: Counts{
			TotalCards:     len(snap.Cards),
			TotalGroups:    len(snap.Groups),
			TotalNotes:     len(snap.Notes),
			TotalTemplates: len(snap.Templates),
			TotalSearches:  len(snap.Searches),
		},
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: marshal: %w", err)
	}
	return data, nil
}

// ValidationError aggregates the per-entity errors of a rejected import.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("backup validation failed: %s", strings.Join(e.Errors, "; "))
}

// Import parses a backup document, runs its data object through the
// validation gate, and returns the decoded snapshot. A failing validation
// rejects the whole document: no partial result is ever returned.
func Import(raw []byte) (timeline.Snapshot, error) {
	var env struct {
		Version string          `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return timeline.Snapshot{}, fmt.Errorf("backup: parse document: %w", err)
	}
	if len(env.Data) == 0 {
		return timeline.Snapshot{}, fmt.Errorf("backup: document has no data object")
	}

	if res := validate.Data(env.Data); !res.IsValid {
		return timeline.Snapshot{}, &ValidationError{Errors: res.Errors}
	}

	var snap timeline.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		return timeline.Snapshot{}, fmt.Errorf("backup: decode data: %w", err)
	}
	return snap, nil
}
