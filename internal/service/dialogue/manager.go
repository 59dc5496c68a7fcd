package dialogue

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/generator"
	"github.com/sandevgo/recallbot/internal/storage/vector"
	"github.com/sandevgo/recallbot/pkg/log"
)

// FallbackReply is returned when generation fails twice.
const FallbackReply = generator.AllUnavailableMessage

var nameDeclaration = regexp.MustCompile(`(?i)my name is`)

type Generator interface {
	Generate(ctx context.Context, pc core.PromptContext) (string, error)
}

type Config struct {
	TopK          int
	ContextChars  int
	MaxStoreChars int
	HistoryLimit  int
	HistoryTokens int
}

func DefaultConfig() Config {
	return Config{
		TopK:          5,
		ContextChars:  800,
		MaxStoreChars: 2000,
		HistoryLimit:  10,
		HistoryTokens: 1500,
	}
}

// Manager assembles per-turn context from the vector store, the fact
// store and recent history, then asks the generator for a reply.
// Store reads and writes run sequentially; any store failure degrades
// to placeholder context instead of failing the turn.
type Manager struct {
	cfg       Config
	embedder  core.Embedder
	vectors   core.VectorStore
	facts     core.FactStore
	history   core.HistoryCache
	generator Generator
	tokens    TokenCounter
	now       func() time.Time
}

func NewManager(
	cfg Config,
	embedder core.Embedder,
	vectors core.VectorStore,
	facts core.FactStore,
	history core.HistoryCache,
	generator Generator,
) *Manager {
	return &Manager{
		cfg:       cfg,
		embedder:  embedder,
		vectors:   vectors,
		facts:     facts,
		history:   history,
		generator: generator,
		tokens:    TiktokenCounter,
		now:       time.Now,
	}
}

// WithTokenCounter swaps the history token counter.
func (m *Manager) WithTokenCounter(c TokenCounter) *Manager {
	m.tokens = c
	return m
}

// Respond never fails: degraded context or the fallback text is returned
// instead of an error.
func (m *Manager) Respond(ctx context.Context, userID, text, priorHistory string) string {
	logger := log.FromCtx(ctx).With().Str("component", "dialogue").Str("user", userID).Logger()
	ctx = logger.WithContext(ctx)

	vec, memoryBlock := m.similar(ctx, userID, text)

	if name, ok := DetectName(text); ok {
		if err := m.facts.UpsertFact(ctx, userID, "name", name); err != nil {
			logger.Error().Err(err).Msg("failed to save name fact")
		} else {
			logger.Info().Str("name", name).Msg("name fact saved")
		}
	}

	factsBlock := m.factBlock(ctx, userID)
	m.store(ctx, userID, text, vec)
	historyBlock := m.historyBlock(ctx, userID, priorHistory)

	reply, err := m.generator.Generate(ctx, core.PromptContext{
		Prompt:        text,
		Facts:         factsBlock,
		MemoryContext: memoryBlock,
		History:       historyBlock,
	})
	if err == nil {
		return reply
	}

	logger.Error().Err(err).Msg("generation failed, retrying without context")
	reply, err = m.generator.Generate(ctx, core.PromptContext{Prompt: text})
	if err != nil {
		logger.Error().Err(err).Msg("bare generation failed")
		return FallbackReply
	}
	return reply
}

// DetectName finds an inline "my name is X" and returns X without
// trailing dots. The last declaration in the text wins.
func DetectName(text string) (string, bool) {
	locs := nameDeclaration.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return "", false
	}
	name := strings.TrimSpace(text[locs[len(locs)-1][1]:])
	name = strings.TrimSpace(strings.TrimRight(name, "."))
	if name == "" {
		return "", false
	}
	return name, true
}

// similar embeds text once and returns the vector with the rendered block.
// The vector is reused when storing the message.
func (m *Manager) similar(ctx context.Context, userID, text string) ([]float32, string) {
	logger := log.FromCtx(ctx)

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		logger.Error().Err(err).Msg("embedding failed")
		return nil, NoMatchesPlaceholder
	}

	matches, err := m.vectors.Query(ctx, vec, m.cfg.TopK, userID)
	if err != nil {
		logger.Error().Err(err).Msg("similarity query failed")
		return vec, NoMatchesPlaceholder
	}
	return vec, RenderMatches(matches, m.cfg.ContextChars)
}

func (m *Manager) factBlock(ctx context.Context, userID string) string {
	logger := log.FromCtx(ctx)

	global, err := m.facts.GetAllFacts(ctx, core.GlobalOwner)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load global facts")
	}
	user, err := m.facts.GetAllFacts(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load user facts")
	}
	return RenderFacts(MergeFacts(global, user))
}

// store is best effort; long messages are skipped.
func (m *Manager) store(ctx context.Context, userID, text string, vec []float32) {
	if vec == nil || len([]rune(text)) >= m.cfg.MaxStoreChars {
		return
	}

	id := userID + "-" + uuid.NewString()
	meta := map[string]string{
		vector.MetaUserID: userID,
		vector.MetaText:   text,
		"source":          "user_message",
		"stored_at":       strconv.FormatInt(m.now().Unix(), 10),
	}
	if _, err := m.vectors.Upsert(ctx, id, vec, meta); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to store message vector")
	}
}

func (m *Manager) historyBlock(ctx context.Context, userID, prior string) string {
	if strings.TrimSpace(prior) != "" {
		return prior
	}

	entries, err := m.history.GetRecent(ctx, userID, m.cfg.HistoryLimit)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load recent history")
		return ""
	}
	return FormatHistory(TrimHistory(entries, m.cfg.HistoryTokens, m.tokens))
}

// StoreMany embeds texts in one batch and stores them for userID.
// It returns how many were stored.
func (m *Manager) StoreMany(ctx context.Context, userID string, texts []string, source string) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	vecs, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	stamp := strconv.FormatInt(m.now().Unix(), 10)
	stored := 0
	for i, vec := range vecs {
		meta := map[string]string{
			vector.MetaUserID: userID,
			vector.MetaText:   texts[i],
			"source":          source,
			"stored_at":       stamp,
		}
		if _, err := m.vectors.Upsert(ctx, userID+"-"+uuid.NewString(), vec, meta); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}
