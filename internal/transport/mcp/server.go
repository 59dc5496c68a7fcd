package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/dialogue"
	"github.com/sandevgo/recallbot/pkg/log"
)

const defaultRecentLimit = 10

// Server exposes the memory stores as MCP tools over stdio.
type Server struct {
	mcp     *server.MCPServer
	facts   core.FactStore
	history core.HistoryCache
}

func NewServer(facts core.FactStore, history core.HistoryCache) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(core.AppName, core.AppVersion, server.WithToolCapabilities(false)),
		facts:   facts,
		history: history,
	}

	s.mcp.AddTool(mcp.NewTool("get_facts",
		mcp.WithDescription("List remembered facts for a user, global facts included"),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
	), s.getFacts)

	s.mcp.AddTool(mcp.NewTool("save_fact",
		mcp.WithDescription("Remember a fact for a user; an existing key is overwritten"),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Fact key, stored lowercase")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Fact value")),
	), s.saveFact)

	s.mcp.AddTool(mcp.NewTool("recent_history",
		mcp.WithDescription("Recent conversation turns for a user, oldest first"),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
		mcp.WithNumber("limit", mcp.Description("Maximum turns to return")),
	), s.recentHistory)

	return s
}

// Start serves until ctx is cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving mcp over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) getFacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	global, err := s.facts.GetAllFacts(ctx, core.GlobalOwner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read global facts: %v", err)), nil
	}
	own, err := s.facts.GetAllFacts(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read facts: %v", err)), nil
	}
	return mcp.NewToolResultText(dialogue.RenderFacts(dialogue.MergeFacts(global, own))), nil
}

func (s *Server) saveFact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return mcp.NewToolResultError("key and value must not be empty"), nil
	}

	if err := s.facts.UpsertFact(ctx, userID, key, value); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("key", key).Msg("mcp save_fact failed")
		return mcp.NewToolResultError(fmt.Sprintf("save fact: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s: %s", key, value)), nil
}

func (s *Server) recentHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := int(req.GetFloat("limit", defaultRecentLimit))
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	entries, err := s.history.GetRecent(ctx, userID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read history: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no history"), nil
	}
	return mcp.NewToolResultText(dialogue.FormatHistory(entries)), nil
}
