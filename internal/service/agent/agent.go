package agent

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/dialogue"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	NoHistoryReply      = "No chat history yet."
	TaskFailedReply     = "Sorry, I could not save that task."
	TaskListFailedReply = "Sorry, I could not load your tasks."
	defaultHistoryLen   = 10
)

type Generator interface {
	Generate(ctx context.Context, pc core.PromptContext) (string, error)
}

// Agent routes one user turn by intent and always produces a reply.
type Agent struct {
	classifier core.Classifier
	responder  core.Responder
	generator  Generator
	facts      core.FactStore
	history    core.HistoryCache
	tasks      core.TaskRepository
	extraction core.ExtractionQueue

	HistoryLimit int
	now          func() time.Time
}

func NewAgent(
	classifier core.Classifier,
	responder core.Responder,
	generator Generator,
	facts core.FactStore,
	history core.HistoryCache,
	tasks core.TaskRepository,
) *Agent {
	return &Agent{
		classifier:   classifier,
		responder:    responder,
		generator:    generator,
		facts:        facts,
		history:      history,
		tasks:        tasks,
		HistoryLimit: defaultHistoryLen,
		now:          time.Now,
	}
}

// WithExtraction queues every user turn for background fact extraction.
func (a *Agent) WithExtraction(q core.ExtractionQueue) *Agent {
	a.extraction = q
	return a
}

func (a *Agent) Handle(ctx context.Context, userID, text string) string {
	return a.HandleTurn(ctx, core.ConversationTurn{UserID: userID, Text: text})
}

// HandleTurn classifies the turn, runs the matching action and records
// the exchange under the turn's conversation.
func (a *Agent) HandleTurn(ctx context.Context, turn core.ConversationTurn) string {
	userID, text := turn.UserID, turn.Text
	if turn.At.IsZero() {
		turn.At = a.now()
	}

	logger := log.FromCtx(ctx).With().Str("component", "agent").Str("user", userID).Logger()
	ctx = logger.WithContext(ctx)

	intent := a.classifier.Classify(text)
	logger.Debug().Str("action", string(intent.Action)).Msg("intent classified")

	var reply string
	switch intent.Action {
	case core.ActionCreateTask:
		reply = a.createTask(ctx, userID, intent.Task)
	case core.ActionFetchTasks:
		reply = a.fetchTasks(ctx, userID)
	case core.ActionSaveFact:
		reply = a.saveFact(ctx, userID, text, intent.Fact)
	case core.ActionGetChatHistory:
		// history listings are not themselves recorded
		return a.chatHistory(ctx, userID)
	default:
		reply = a.responder.Respond(ctx, userID, text, "")
	}

	a.record(ctx, turn, reply)
	if a.extraction != nil && intent.Action == core.ActionGeneralChat {
		a.extraction.Enqueue(userID, text)
	}
	return reply
}

func (a *Agent) createTask(ctx context.Context, userID string, p *core.TaskPayload) string {
	if p == nil {
		return TaskFailedReply
	}

	id, err := a.tasks.CreateTask(ctx, core.Task{
		UserID:   userID,
		Title:    p.Title,
		Datetime: p.Datetime,
		Priority: p.Priority,
		Category: p.Category,
		Notes:    p.Notes,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to save task")
		return TaskFailedReply
	}

	log.FromCtx(ctx).Info().Str("task_id", strconv.FormatInt(id, 10)).Msg("task saved")
	return fmt.Sprintf("Task saved: %s due %s", p.Title, p.Datetime)
}

func (a *Agent) fetchTasks(ctx context.Context, userID string) string {
	tasks, err := a.tasks.ListTasks(ctx, userID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to list tasks")
		return TaskListFailedReply
	}
	return a.generateWithContext(ctx, userID, fmt.Sprintf("You have %d tasks.", len(tasks)))
}

func (a *Agent) saveFact(ctx context.Context, userID, text string, p *core.FactPayload) string {
	if p == nil {
		return a.responder.Respond(ctx, userID, text, "")
	}

	if err := a.facts.UpsertFact(ctx, userID, p.Key, p.Value); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("key", p.Key).Msg("failed to save fact")
	}
	confirmation := fmt.Sprintf("I have saved the fact '%s: %s' in your knowledge base.", p.Key, p.Value)
	return a.generateWithContext(ctx, userID, confirmation)
}

func (a *Agent) chatHistory(ctx context.Context, userID string) string {
	entries, err := a.history.GetRecent(ctx, userID, a.HistoryLimit)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to read history")
	}
	if len(entries) == 0 {
		return NoHistoryReply
	}
	return dialogue.FormatHistory(entries)
}

// generateWithContext sends a system-made prompt through the generator
// with the user's facts and recent history attached.
func (a *Agent) generateWithContext(ctx context.Context, userID, prompt string) string {
	logger := log.FromCtx(ctx)
	pc := core.PromptContext{Prompt: prompt}

	global, err := a.facts.GetAllFacts(ctx, core.GlobalOwner)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read global facts")
	}
	own, err := a.facts.GetAllFacts(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read user facts")
	}
	if merged := dialogue.MergeFacts(global, own); len(merged) > 0 {
		pc.Facts = dialogue.RenderFacts(merged)
	}

	entries, err := a.history.GetRecent(ctx, userID, a.HistoryLimit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read history")
	}
	pc.History = dialogue.FormatHistory(entries)

	reply, err := a.generator.Generate(ctx, pc)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		return dialogue.FallbackReply
	}
	return reply
}

func (a *Agent) record(ctx context.Context, turn core.ConversationTurn, reply string) {
	entry := core.HistoryEntry{
		UserID:         turn.UserID,
		ConversationID: turn.ConversationID,
		User:           turn.Text,
		Bot:            reply,
		CreatedAt:      turn.At.UTC(),
	}
	if err := a.history.Push(ctx, turn.UserID, entry); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to record history")
	}
}
