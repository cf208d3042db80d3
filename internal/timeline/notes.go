package timeline

import (
	"fmt"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// NoteDraft is the caller-supplied part of a new research note.
type NoteDraft struct {
	Title    string              `json:"title"`
	Content  string              `json:"content"`
	Category models.NoteCategory `json:"category"`
	Tags     []string            `json:"tags"`
	Links    []string            `json:"links"`
}

// NotePatch updates selected note fields. Nil fields are left untouched.
type NotePatch struct {
	Title    *string              `json:"title,omitempty"`
	Content  *string              `json:"content,omitempty"`
	Category *models.NoteCategory `json:"category,omitempty"`
	Tags     []string             `json:"tags,omitempty"`
	Links    []string             `json:"links,omitempty"`
}

// AddNote stores a new research note.
func (s *Service) AddNote(d NoteDraft) (models.ResearchNote, error) {
	if d.Title == "" {
		return models.ResearchNote{}, fmt.Errorf("note title is required: %w", apperr.ErrInvalid)
	}
	category := d.Category
	if category == "" {
		category = models.CategoryGeneral
	}

	s.mu.Lock()
	now := s.now()
	note := models.ResearchNote{
		ID:        s.newID(),
		Title:     d.Title,
		Content:   d.Content,
		Category:  category,
		Tags:      append([]string{}, d.Tags...),
		Links:     append([]string{}, d.Links...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append(s.notes, note)
	out := note.Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "note", Action: "created", ID: note.ID})
	return out, nil
}

// GetNote returns a copy of the note with the given id.
func (s *Service) GetNote(id string) (models.ResearchNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			return s.notes[i].Clone(), nil
		}
	}
	return models.ResearchNote{}, fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
}

// ListNotes returns copies of all research notes.
func (s *Service) ListNotes() []models.ResearchNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ResearchNote, len(s.notes))
	for i := range s.notes {
		out[i] = s.notes[i].Clone()
	}
	return out
}

// UpdateNote patches the note and refreshes its updatedAt timestamp.
func (s *Service) UpdateNote(id string, p NotePatch) (models.ResearchNote, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.notes {
		if s.notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return models.ResearchNote{}, fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
	}

	note := &s.notes[idx]
	if p.Title != nil {
		note.Title = *p.Title
	}
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Category != nil {
		note.Category = *p.Category
	}
	if p.Tags != nil {
		note.Tags = append([]string{}, p.Tags...)
	}
	if p.Links != nil {
		note.Links = append([]string{}, p.Links...)
	}
	note.UpdatedAt = s.now()
	out := note.Clone()
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "note", Action: "updated", ID: id})
	return out, nil
}

// DeleteNote removes a research note.
func (s *Service) DeleteNote(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.notes {
		if s.notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
	}
	s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "note", Action: "deleted", ID: id})
	return nil
}
