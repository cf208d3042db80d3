package models

// TemplateFields is a partial CardMetadata carried by a template. Empty
// fields are left untouched when the template is applied; Tags concatenate
// with the card's existing tags and CustomFields merge key-by-key.
type TemplateFields struct {
	Tags         []string               `json:"tags,omitempty"`
	Label        string                 `json:"label,omitempty"`
	PointOfView  string                 `json:"pointOfView,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Status       Status                 `json:"status,omitempty"`
	CustomFields map[string]CustomValue `json:"customFields,omitempty"`
}

// MetadataTemplate is a named bundle of metadata fields applied by merge
// onto a card or a bulk selection of cards.
type MetadataTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Fields      TemplateFields `json:"fields"`
}

// Apply merges the template fields onto the given metadata: tags are
// concatenated (duplicates dropped), scalar fields overwrite when set, and
// custom fields merge key-by-key.
func (f TemplateFields) Apply(m CardMetadata) CardMetadata {
	out := m.Clone()
	for _, tag := range f.Tags {
		if !out.HasTag(tag) {
			out.Tags = append(out.Tags, tag)
		}
	}
	if f.Label != "" {
		out.Label = f.Label
	}
	if f.PointOfView != "" {
		out.PointOfView = f.PointOfView
	}
	if f.Location != "" {
		out.Location = f.Location
	}
	if f.Status != "" {
		out.Status = f.Status
	}
	if len(f.CustomFields) > 0 {
		if out.CustomFields == nil {
			out.CustomFields = make(map[string]CustomValue, len(f.CustomFields))
		}
		for k, v := range f.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return out
}
