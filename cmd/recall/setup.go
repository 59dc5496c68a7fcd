package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/providers/embedding"
	"github.com/sandevgo/recallbot/internal/providers/llm"
	"github.com/sandevgo/recallbot/internal/service/agent"
	"github.com/sandevgo/recallbot/internal/service/command"
	"github.com/sandevgo/recallbot/internal/service/dialogue"
	"github.com/sandevgo/recallbot/internal/service/generator"
	"github.com/sandevgo/recallbot/internal/service/memory"
	"github.com/sandevgo/recallbot/internal/service/nlu"
	"github.com/sandevgo/recallbot/internal/storage/sqlite"
	"github.com/sandevgo/recallbot/internal/storage/vector"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/srv"
)

// stores holds the persistence layer shared by every entry point.
type stores struct {
	db      *sql.DB
	facts   *sqlite.FactsRepo
	history *sqlite.HistoryRepo
	tasks   *sqlite.TasksRepo
}

// app is the fully wired assistant.
type app struct {
	cfg       *config.AppConfig
	stores    *stores
	engine    *generator.Engine
	manager   *dialogue.Manager
	agent     *agent.Agent
	commands  *command.Router
	extractor *memory.Extractor
	services  []srv.Service
}

func loadAppConfig(ctx context.Context) *config.AppConfig {
	if err := config.LoadEnvFile(config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to load .env file")
	}
	return config.NewAppConfig(ctx)
}

func initStores(ctx context.Context, cfg *config.AppConfig) (*stores, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, err
	}
	return &stores{
		db:      db,
		facts:   sqlite.NewFactsRepo(db),
		history: sqlite.NewHistoryRepo(db, cfg.GetHistoryCapacity()),
		tasks:   sqlite.NewTasksRepo(db),
	}, nil
}

func initVectors(cfg *config.AppConfig, embCfg *config.EmbeddingConfig) (*vector.Store, error) {
	if !embCfg.Persist {
		return vector.NewMemoryStore(), nil
	}
	return vector.NewPersistentStore(cfg.GetVectorPath())
}

// newApp wires the assistant. Startup failures are fatal.
func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// 1. Configuration
	appCfg := loadAppConfig(ctx)
	providersCfg := config.NewProvidersConfig(ctx)
	embCfg := config.NewEmbeddingConfig(ctx)

	a := &app{cfg: appCfg}

	// 2. Storage
	st, err := initStores(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.stores = st
	a.services = append(a.services, srv.NewCleanup("sqlite", st.db.Close))

	vectors, err := initVectors(appCfg, embCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector store")
	}

	// 3. Embeddings
	embedder, err := embedding.NewEmbedder(embCfg, providersCfg.OllamaBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	a.services = append(a.services, srv.NewCleanup("embedding-cache", embedder.Close))

	// 4. Providers and generator
	providers, err := llm.NewProviders(ctx, providersCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize llm providers")
	}
	a.engine = generator.NewEngine(providers, generator.NewCooldown(providersCfg.FailureCooldown, nil))

	// 5. Dialogue and routing
	a.manager = dialogue.NewManager(dialogueConfig(appCfg), embedder, vectors, st.facts, st.history, a.engine).
		WithTokenCounter(tokenCounter(appCfg))
	classifier := nlu.NewClassifier(nlu.NewTimeParser(appCfg.GetLocation(), nil))
	logger.Debug().Strs("rules", classifier.RuleNames()).Msg("intent rules loaded")
	a.agent = agent.NewAgent(classifier, a.manager, a.engine, st.facts, st.history, st.tasks)
	a.agent.HistoryLimit = appCfg.GetHistoryCapacity()
	a.commands = command.New(command.NewCommands(st.facts, st.history, a.engine))

	// 6. Background extraction
	if appCfg.ExtractionEnabled {
		a.extractor = memory.NewExtractor(st.facts, a.engine)
		a.agent.WithExtraction(a.extractor)
		a.services = append(a.services, a.extractor)
	}

	logger.Info().
		Int("providers", len(providers)).
		Str("embedding", fmt.Sprintf("%s/%d", embCfg.Provider, embedder.Dimension())).
		Bool("extraction", appCfg.ExtractionEnabled).
		Msg("assistant wired")
	return a
}

func dialogueConfig(cfg *config.AppConfig) dialogue.Config {
	return dialogue.Config{
		TopK:          cfg.MemoryTopK,
		ContextChars:  cfg.MemoryContextChars,
		MaxStoreChars: cfg.MemoryMaxStore,
		HistoryLimit:  cfg.GetHistoryCapacity(),
		HistoryTokens: cfg.HistoryTokenBudget,
	}
}

func tokenCounter(cfg *config.AppConfig) dialogue.TokenCounter {
	if cfg.HistoryTokenizer == config.TokenizerEstimate {
		return dialogue.EstimateCounter
	}
	return dialogue.TiktokenCounter
}

var _ core.TurnHandler = (*agent.Agent)(nil)
