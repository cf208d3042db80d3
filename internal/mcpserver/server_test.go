package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marlowe/fabula/internal/models"
	"github.com/marlowe/fabula/internal/timeline"
)

func testServer(t *testing.T) (*Server, *timeline.Service) {
	t.Helper()
	n := 0
	svc := timeline.NewService(
		timeline.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
		timeline.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_cards":
		result, err = srv.searchCards(ctx, req)
	case "get_card":
		result, err = srv.getCard(ctx, req)
	case "create_card":
		result, err = srv.createCard(ctx, req)
	case "list_groups":
		result, err = srv.listGroups(ctx, req)
	case "list_research_notes":
		result, err = srv.listResearchNotes(ctx, req)
	case "get_story_outline":
		result, err = srv.getStoryOutline(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndGetCard(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "create_card", map[string]interface{}{
		"title":       "The Heist",
		"description": "the crew hits the vault",
	})
	text := resultText(r)
	if text != "created: id-1" {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "get_card", map[string]interface{}{"id": "id-1"})
	text = resultText(r)
	if !strings.Contains(text, `"The Heist"`) || !strings.Contains(text, "the crew hits the vault") {
		t.Errorf("get result = %q", text)
	}

	if cards := svc.ListCards(); len(cards) != 1 {
		t.Errorf("cards = %d", len(cards))
	}
}

func TestCreateCardIntoGroup(t *testing.T) {
	srv, svc := testServer(t)
	g, err := svc.AddGroup(timeline.GroupDraft{Title: "Act One", Type: models.GroupAct})
	if err != nil {
		t.Fatal(err)
	}

	_ = callTool(t, srv, "create_card", map[string]interface{}{
		"title": "Opening",
		"group": g.ID,
	})
	got, _ := svc.GetGroup(g.ID)
	if len(got.CardIDs) != 1 {
		t.Errorf("cardIds = %v", got.CardIDs)
	}
}

func TestSearchCards(t *testing.T) {
	srv, svc := testServer(t)
	if _, err := svc.AddCard(timeline.CardDraft{
		Title:    "The Heist",
		Metadata: models.CardMetadata{Tags: []string{"action"}, Status: models.StatusFinal},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddCard(timeline.CardDraft{Title: "Aftermath"}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "search_cards", map[string]interface{}{"query": "heist"})
	if text := resultText(r); !strings.Contains(text, "The Heist") || strings.Contains(text, "Aftermath") {
		t.Errorf("search result = %q", text)
	}

	r = callTool(t, srv, "search_cards", map[string]interface{}{"tags": "action, calm"})
	if text := resultText(r); !strings.Contains(text, "The Heist") || strings.Contains(text, "Aftermath") {
		t.Errorf("tag search result = %q", text)
	}

	r = callTool(t, srv, "search_cards", map[string]interface{}{"status": "final"})
	if text := resultText(r); !strings.Contains(text, "The Heist") || strings.Contains(text, "Aftermath") {
		t.Errorf("status search result = %q", text)
	}
}

func TestGetCardMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_card", map[string]interface{}{"id": "ghost"})
	if !r.IsError {
		t.Error("expected error for missing card")
	}
}

func TestListResearchNotesByCategory(t *testing.T) {
	srv, svc := testServer(t)
	if _, err := svc.AddNote(timeline.NoteDraft{Title: "Venice", Category: models.CategoryResearch}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddNote(timeline.NoteDraft{Title: "Twist idea", Category: models.CategoryIdeas}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_research_notes", map[string]interface{}{"category": "research"})
	if text := resultText(r); !strings.Contains(text, "Venice") || strings.Contains(text, "Twist idea") {
		t.Errorf("notes = %q", text)
	}
}

func TestGetStoryOutline(t *testing.T) {
	srv, svc := testServer(t)
	g, err := svc.AddGroup(timeline.GroupDraft{Title: "Act One", Type: models.GroupAct})
	if err != nil {
		t.Fatal(err)
	}
	c, err := svc.AddCard(timeline.CardDraft{Title: "Opening"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AssignCardToGroup(c.ID, g.ID); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "get_story_outline", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "ACT ONE") || !strings.Contains(text, "Opening") {
		t.Errorf("outline = %q", text)
	}
}
