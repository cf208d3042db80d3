package timeline

import (
	"fmt"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

// TemplateDraft is the caller-supplied part of a new metadata template.
type TemplateDraft struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Fields      models.TemplateFields `json:"fields"`
}

// AddTemplate stores a new metadata template.
func (s *Service) AddTemplate(d TemplateDraft) (models.MetadataTemplate, error) {
	if d.Name == "" {
		return models.MetadataTemplate{}, fmt.Errorf("template name is required: %w", apperr.ErrInvalid)
	}

	s.mu.Lock()
	tpl := models.MetadataTemplate{
		ID:          s.newID(),
		Name:        d.Name,
		Description: d.Description,
		Fields:      d.Fields,
	}
	s.templates = append(s.templates, tpl)
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "template", Action: "created", ID: tpl.ID})
	return tpl, nil
}

// ListTemplates returns copies of all metadata templates.
func (s *Service) ListTemplates() []models.MetadataTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MetadataTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.templates {
		if s.templates[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fmt.Errorf("template %s: %w", id, apperr.ErrNotFound)
	}
	s.templates = append(s.templates[:idx], s.templates[idx+1:]...)
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "template", Action: "deleted", ID: id})
	return nil
}

// ApplyTemplate merges the template's fields onto every listed card: tags
// concatenate, scalar fields overwrite, custom fields merge.
func (s *Service) ApplyTemplate(cardIDs []string, templateID string) error {
	s.mu.Lock()
	var fields *models.TemplateFields
	for i := range s.templates {
		if s.templates[i].ID == templateID {
			fields = &s.templates[i].Fields
			break
		}
	}
	if fields == nil {
		s.mu.Unlock()
		return fmt.Errorf("template %s: %w", templateID, apperr.ErrNotFound)
	}

	now := s.now()
	for _, id := range cardIDs {
		if i := s.cardIndexLocked(id); i != -1 {
			s.cards[i].Metadata = fields.Apply(s.cards[i].Metadata)
			s.cards[i].UpdatedAt = now
		}
	}
	s.mu.Unlock()

	s.notify(ChangeEvent{Entity: "card", Action: "updated"})
	return nil
}
