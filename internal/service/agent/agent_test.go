package agent

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/providers/embedding"
	"github.com/sandevgo/recallbot/internal/service/dialogue"
	"github.com/sandevgo/recallbot/internal/service/nlu"
	"github.com/sandevgo/recallbot/internal/storage/sqlite"
	"github.com/sandevgo/recallbot/internal/storage/vector"
)

type stubResponder struct {
	mu    sync.Mutex
	texts []string
	reply string
}

func (s *stubResponder) Respond(ctx context.Context, userID, text, priorHistory string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return s.reply
}

type recordingGenerator struct {
	mu    sync.Mutex
	calls []core.PromptContext
	err   error
}

func (g *recordingGenerator) Generate(ctx context.Context, pc core.PromptContext) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, pc)
	if g.err != nil {
		return "", g.err
	}
	return "generated: " + pc.Prompt, nil
}

type recordingQueue struct {
	texts []string
}

func (q *recordingQueue) Enqueue(userID, text string) {
	q.texts = append(q.texts, userID+":"+text)
}

type failingTasks struct{}

func (failingTasks) CreateTask(ctx context.Context, task core.Task) (int64, error) {
	return 0, core.ErrMemoryStore
}

func (failingTasks) ListTasks(ctx context.Context, userID string) ([]core.Task, error) {
	return nil, core.ErrMemoryStore
}

type fixture struct {
	agent     *Agent
	responder *stubResponder
	gen       *recordingGenerator
	facts     *sqlite.FactsRepo
	history   *sqlite.HistoryRepo
	tasks     *sqlite.TasksRepo
	queue     *recordingQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "agent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, loc)
	classifier := nlu.NewClassifier(nlu.NewTimeParser(loc, func() time.Time { return now }))

	f := &fixture{
		responder: &stubResponder{reply: "chat reply"},
		gen:       &recordingGenerator{},
		facts:     sqlite.NewFactsRepo(db),
		history:   sqlite.NewHistoryRepo(db, 10),
		tasks:     sqlite.NewTasksRepo(db),
		queue:     &recordingQueue{},
	}
	f.agent = NewAgent(classifier, f.responder, f.gen, f.facts, f.history, f.tasks).WithExtraction(f.queue)
	return f
}

func TestAgent_GeneralChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply := f.agent.Handle(ctx, "u1", "how is the weather")
	assert.Equal(t, "chat reply", reply)
	assert.Equal(t, []string{"how is the weather"}, f.responder.texts)
	assert.Equal(t, []string{"u1:how is the weather"}, f.queue.texts)

	recent, err := f.history.GetRecent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "how is the weather", recent[0].User)
	assert.Equal(t, "chat reply", recent[0].Bot)
}

func TestAgent_CreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply := f.agent.Handle(ctx, "u1", "remind me to call mom at 8:30 PM")
	assert.Equal(t, "Task saved: call mom due 2025-03-01 20:30:00", reply)
	assert.Empty(t, f.responder.texts)
	assert.Empty(t, f.queue.texts)

	tasks, err := f.tasks.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "call mom", tasks[0].Title)
	assert.Equal(t, "medium", tasks[0].Priority)

	recent, err := f.history.GetRecent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestAgent_FetchTasksGoesThroughGenerator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.agent.Handle(ctx, "u1", "add task buy milk due tomorrow 9 am")
	require.NoError(t, f.facts.UpsertFact(ctx, core.GlobalOwner, "timezone", "IST"))

	reply := f.agent.Handle(ctx, "u1", "show tasks please")
	assert.Equal(t, "generated: You have 1 tasks.", reply)

	require.Len(t, f.gen.calls, 1)
	pc := f.gen.calls[0]
	assert.Equal(t, "You have 1 tasks.", pc.Prompt)
	assert.Contains(t, pc.Facts, "- timezone: IST")
	assert.Contains(t, pc.History, "User: add task buy milk due tomorrow 9 am")
}

func TestAgent_SaveFactIsUserOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply := f.agent.Handle(ctx, "u1", "save fact Favorite Color as Teal")
	assert.Equal(t, "generated: I have saved the fact 'favorite color: Teal' in your knowledge base.", reply)

	v, ok, err := f.facts.GetFact(ctx, "u1", "favorite color")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Teal", v)

	_, ok, err = f.facts.GetFact(ctx, core.GlobalOwner, "favorite color")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, f.gen.calls, 1)
	assert.Contains(t, f.gen.calls[0].Facts, "- favorite color: Teal")
}

func TestAgent_ChatHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, NoHistoryReply, f.agent.Handle(ctx, "u1", "show chat history"))

	f.agent.Handle(ctx, "u1", "hello there")
	reply := f.agent.Handle(ctx, "u1", "show chat history")
	assert.Equal(t, "User: hello there\nAssistant: chat reply", reply)

	recent, err := f.history.GetRecent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestAgent_GeneratorFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("render failed")

	reply := f.agent.Handle(context.Background(), "u1", "list tasks")
	assert.Equal(t, dialogue.FallbackReply, reply)
}

func TestAgent_UsersAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.agent.Handle(ctx, "u1", "remember city is Pune")
	f.agent.Handle(ctx, "u2", "remember city is Goa")

	v, _, _ := f.facts.GetFact(ctx, "u1", "city")
	assert.Equal(t, "Pune", v)
	v, _, _ = f.facts.GetFact(ctx, "u2", "city")
	assert.Equal(t, "Goa", v)
}

func TestAgent_HandleTurnKeepsConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC)

	f.agent.HandleTurn(ctx, core.ConversationTurn{UserID: "u1", Text: "hey", ConversationID: "chat-9", At: at})

	recent, err := f.history.GetRecent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "chat-9", recent[0].ConversationID)
	assert.True(t, at.Equal(recent[0].CreatedAt))
}

func TestAgent_FetchTasksFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.agent.tasks = failingTasks{}

	reply := f.agent.Handle(context.Background(), "u1", "show tasks")
	assert.Equal(t, TaskListFailedReply, reply)
	assert.Empty(t, f.gen.calls)
}

func TestAgent_NameIsRecalledInLaterTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	manager := dialogue.NewManager(dialogue.DefaultConfig(), embedding.NewHashEmbedder(64), vector.NewMemoryStore(),
		f.facts, f.history, f.gen).WithTokenCounter(dialogue.EstimateCounter)
	f.agent.responder = manager

	f.agent.Handle(ctx, "u1", "My name is Asha")
	v, ok, err := f.facts.GetFact(ctx, "u1", "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Asha", v)

	reply := f.agent.Handle(ctx, "u1", "what's my name")
	assert.Equal(t, "generated: what's my name", reply)

	require.NotEmpty(t, f.gen.calls)
	last := f.gen.calls[len(f.gen.calls)-1]
	assert.Equal(t, "what's my name", last.Prompt)
	assert.Contains(t, last.Facts, "- name: Asha")
	assert.Contains(t, last.History, "User: My name is Asha")
}
