package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/storage/sqlite"
)

func newServer(t *testing.T) (*Server, *sqlite.FactsRepo, *sqlite.HistoryRepo) {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	facts := sqlite.NewFactsRepo(db)
	history := sqlite.NewHistoryRepo(db, 10)
	return NewServer(facts, history), facts, history
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestSaveAndGetFacts(t *testing.T) {
	s, facts, _ := newServer(t)
	ctx := context.Background()
	require.NoError(t, facts.UpsertFact(ctx, core.GlobalOwner, "city", "Delhi"))

	res, err := s.saveFact(ctx, call("save_fact", map[string]any{"user_id": "u1", "key": " City ", "value": "Pune"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "saved city: Pune", text(t, res))

	res, err = s.getFacts(ctx, call("get_facts", map[string]any{"user_id": "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "- city: Pune", text(t, res))

	res, err = s.getFacts(ctx, call("get_facts", map[string]any{"user_id": "u2"}))
	require.NoError(t, err)
	assert.Equal(t, "- city: Delhi", text(t, res))
}

func TestSaveFact_ValidatesArguments(t *testing.T) {
	s, _, _ := newServer(t)

	res, err := s.saveFact(context.Background(), call("save_fact", map[string]any{"user_id": "u1", "key": "city"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.saveFact(context.Background(), call("save_fact", map[string]any{"user_id": "u1", "key": " ", "value": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRecentHistory(t *testing.T) {
	s, _, history := newServer(t)
	ctx := context.Background()

	res, err := s.recentHistory(ctx, call("recent_history", map[string]any{"user_id": "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "no history", text(t, res))

	require.NoError(t, history.Push(ctx, "u1", core.HistoryEntry{User: "a", Bot: "b"}))
	require.NoError(t, history.Push(ctx, "u1", core.HistoryEntry{User: "c", Bot: "d"}))

	res, err = s.recentHistory(ctx, call("recent_history", map[string]any{"user_id": "u1", "limit": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "User: c\nAssistant: d", text(t, res))
}
