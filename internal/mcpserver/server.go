// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the story planner tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marlowe/fabula/internal/backup"
	"github.com/marlowe/fabula/internal/models"
	"github.com/marlowe/fabula/internal/timeline"
)

// Server wraps the MCP server with planner tools.
type Server struct {
	mcp *server.MCPServer
	svc *timeline.Service
}

// New creates a new MCP server with all planner tools registered.
func New(svc *timeline.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Fabula",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Search story cards by text across title, description, content, tags, location and point of view. "+
			"Optionally restrict to tags (comma-separated, any-of) or a status."),
		mcp.WithString("query", mcp.Description("Search text (empty matches all)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag list; cards matching any tag pass")),
		mcp.WithString("status", mcp.Description("Card status: draft, review, final or archived")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("get_card",
		mcp.WithDescription("Read one story card in full, including metadata and time placement."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
	), s.getCard)

	s.mcp.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Create a new story card at the end of the timeline."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Card title")),
		mcp.WithString("description", mcp.Description("Short summary of the scene or beat")),
		mcp.WithString("content", mcp.Description("Full prose or notes for the card")),
		mcp.WithString("group", mcp.Description("Optional id of the group to file the card into")),
	), s.createCard)

	s.mcp.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the story groups (acts, chapters, events) with their member card ids."),
	), s.listGroups)

	s.mcp.AddTool(mcp.NewTool("list_research_notes",
		mcp.WithDescription("List research notes, optionally restricted to one category."),
		mcp.WithString("category", mcp.Description("Optional category: research, ideas, characters, worldbuilding, plot or general")),
	), s.listResearchNotes)

	s.mcp.AddTool(mcp.NewTool("get_story_outline",
		mcp.WithDescription("Render the whole timeline as a plain-text outline: every group with its cards in order, then the ungrouped cards."),
	), s.getStoryOutline)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio builds a server around svc and runs it on stdin/stdout.
func ServeStdio(svc *timeline.Service) error {
	return New(svc).ServeStdio()
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")

	var filters models.SearchFilters
	if tags := req.GetString("tags", ""); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.Tags = append(filters.Tags, t)
			}
		}
	}
	if status := req.GetString("status", ""); status != "" {
		filters.Status = []string{status}
	}

	cards := s.svc.Filter(query, filters)
	out, _ := json.MarshalIndent(cards, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.svc.GetCard(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(card, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card, err := s.svc.AddCard(timeline.CardDraft{
		Title:       title,
		Description: req.GetString("description", ""),
		Content:     req.GetString("content", ""),
		ParentID:    req.GetString("group", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", card.ID)), nil
}

func (s *Server) listGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.ListGroups(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listResearchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes := s.svc.ListNotes()
	if category := req.GetString("category", ""); category != "" {
		filtered := notes[:0:0]
		for _, n := range notes {
			if string(n.Category) == category {
				filtered = append(filtered, n)
			}
		}
		notes = filtered
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getStoryOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := backup.ExportText(s.svc.Snapshot(), time.Now())
	return mcp.NewToolResultText(string(text)), nil
}
