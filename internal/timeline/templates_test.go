package timeline

import (
	"errors"
	"testing"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/models"
)

func TestApplyTemplateMergesMetadata(t *testing.T) {
	s := newTestService(t)
	c, err := s.AddCard(CardDraft{
		Title: "Scene",
		Metadata: models.CardMetadata{
			Tags:         []string{"existing"},
			CustomFields: map[string]models.CustomValue{"mood": models.StringValue("dark")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	tpl, err := s.AddTemplate(TemplateDraft{
		Name: "Action Sequence",
		Fields: models.TemplateFields{
			Tags:   []string{"action", "existing"},
			Status: models.StatusReview,
			CustomFields: map[string]models.CustomValue{
				"pacing": models.StringValue("fast"),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ApplyTemplate([]string{c.ID}, tpl.ID); err != nil {
		t.Fatalf("ApplyTemplate: %v", err)
	}

	card, _ := s.GetCard(c.ID)
	if !equalStrings(card.Metadata.Tags, []string{"existing", "action"}) {
		t.Errorf("tags = %v, want concat without duplicates", card.Metadata.Tags)
	}
	if card.Metadata.Status != models.StatusReview {
		t.Errorf("status = %q", card.Metadata.Status)
	}
	if v := card.Metadata.CustomFields["pacing"]; v.String() != "fast" {
		t.Errorf("pacing = %v", v)
	}
	if v := card.Metadata.CustomFields["mood"]; v.String() != "dark" {
		t.Errorf("existing custom field lost: %v", v)
	}
}

func TestApplyTemplateSkipsUnknownCards(t *testing.T) {
	s := newTestService(t)
	tpl, err := s.AddTemplate(TemplateDraft{Name: "T"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyTemplate([]string{"ghost"}, tpl.ID); err != nil {
		t.Errorf("unknown card in selection should be skipped, got %v", err)
	}
}

func TestApplyTemplateNotFound(t *testing.T) {
	s := newTestService(t)
	c := mustAddCard(t, s, "Scene")
	if err := s.ApplyTemplate([]string{c.ID}, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	s := newTestService(t)
	if _, err := s.AddTemplate(TemplateDraft{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("nameless template: err = %v", err)
	}

	tpl, err := s.AddTemplate(TemplateDraft{Name: "T"})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ListTemplates(); len(got) != 1 {
		t.Fatalf("templates = %d", len(got))
	}
	if err := s.DeleteTemplate(tpl.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTemplate(tpl.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestSavedSearchLifecycle(t *testing.T) {
	s := newTestService(t)
	if _, err := s.SaveSearch("", "", models.SearchFilters{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("nameless search: err = %v", err)
	}

	q, err := s.SaveSearch("battles", "battle", models.SearchFilters{Tags: []string{"action"}})
	if err != nil {
		t.Fatal(err)
	}
	if !q.Saved {
		t.Error("saved flag not set")
	}
	if got := s.ListSearches(); len(got) != 1 || got[0].Name != "battles" {
		t.Errorf("searches = %+v", got)
	}
	if err := s.DeleteSearch(q.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSearch(q.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestNoteLifecycle(t *testing.T) {
	s := newTestService(t)
	if _, err := s.AddNote(NoteDraft{}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("titleless note: err = %v", err)
	}

	note, err := s.AddNote(NoteDraft{Title: "Venice research", Tags: []string{"setting"}})
	if err != nil {
		t.Fatal(err)
	}
	if note.Category != models.CategoryGeneral {
		t.Errorf("default category = %q", note.Category)
	}

	content := "canals, masks, tides"
	category := models.CategoryWorldbuilding
	got, err := s.UpdateNote(note.ID, NotePatch{Content: &content, Category: &category})
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != content || got.Category != category {
		t.Errorf("note = %+v", got)
	}
	if got.Title != "Venice research" {
		t.Errorf("untouched title changed: %q", got.Title)
	}

	if err := s.DeleteNote(note.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetNote(note.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete: err = %v", err)
	}
}
