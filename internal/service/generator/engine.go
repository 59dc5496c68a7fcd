package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	AllUnavailableMessage = "❌ All AI providers are currently unavailable. Please try again later."
	SummaryFailedMessage  = "❌ Failed to summarize. All AI providers unavailable."
)

// attempt is the outcome of one provider in the priority loop.
type attempt struct {
	provider string
	text     string
	err      error
	skipped  bool
}

func (a attempt) ok() bool {
	return !a.skipped && a.err == nil
}

// Engine drives providers in priority order with per-provider cooldown.
type Engine struct {
	providers []core.Provider
	cooldown  *Cooldown
}

func NewEngine(providers []core.Provider, cooldown *Cooldown) *Engine {
	if cooldown == nil {
		cooldown = NewCooldown(DefaultCooldown, nil)
	}
	return &Engine{providers: providers, cooldown: cooldown}
}

// Generate renders the prompt and returns the first successful reply.
// Provider failures never surface: when every provider fails or is
// cooling down the apology text is returned with a nil error. The error
// is reserved for a prompt that cannot be rendered.
func (e *Engine) Generate(ctx context.Context, pc core.PromptContext) (string, error) {
	prompt, err := RenderPrompt(pc)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	log.FromCtx(ctx).Debug().Int("prompt_len", len(prompt)).Msg("prompt prepared")

	text, ok := e.run(ctx, prompt)
	if !ok {
		return AllUnavailableMessage, nil
	}
	return text, nil
}

func (e *Engine) Summarize(ctx context.Context, text string) string {
	out, ok := e.run(ctx, fmt.Sprintf(summaryPrompt, text))
	if !ok {
		return SummaryFailedMessage
	}
	return out
}

// ExtractEntities asks the primary provider for entity JSON. Any failure
// yields an empty result. A cooling-down primary is not called.
func (e *Engine) ExtractEntities(ctx context.Context, text string) core.Entities {
	empty := core.Entities{Entities: []core.Entity{}, Relationships: []core.Relationship{}}
	if len(e.providers) == 0 {
		return empty
	}

	primary := e.providers[0]
	res := e.try(ctx, primary, fmt.Sprintf(extractionPrompt, text))
	if !res.ok() {
		return empty
	}

	parsed, err := ParseEntities(res.text)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("provider", primary.Name()).Msg("entity extraction returned invalid json")
		return empty
	}
	return parsed
}

func (e *Engine) Status() []core.ProviderStatus {
	names := make([]string, len(e.providers))
	for i, p := range e.providers {
		names[i] = p.Name()
	}
	return e.cooldown.Status(names)
}

// run walks the priority list and stops at the first success.
func (e *Engine) run(ctx context.Context, prompt string) (string, bool) {
	for _, p := range e.providers {
		if res := e.try(ctx, p, prompt); res.ok() {
			return res.text, true
		}
	}

	log.FromCtx(ctx).Error().Err(core.ErrAllProvidersExhausted).Int("providers", len(e.providers)).Msg("no reply generated")
	return "", false
}

func (e *Engine) try(ctx context.Context, p core.Provider, prompt string) attempt {
	logger := log.FromCtx(ctx).With().Str("provider", p.Name()).Logger()

	if !e.cooldown.Available(p.Name()) {
		logger.Warn().Err(core.ErrProviderUnavailable).Msg("provider in cooldown, skipping")
		return attempt{provider: p.Name(), skipped: true, err: core.ErrProviderUnavailable}
	}

	text, err := p.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("provider failed")
		e.cooldown.RecordFailure(p.Name())
		return attempt{provider: p.Name(), err: err}
	}

	e.cooldown.Clear(p.Name())
	return attempt{provider: p.Name(), text: text}
}

// ParseEntities reads the JSON object between the first '{' and the last '}'.
func ParseEntities(raw string) (core.Entities, error) {
	out := core.Entities{Entities: []core.Entity{}, Relationships: []core.Relationship{}}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return out, fmt.Errorf("no json object in reply")
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return core.Entities{Entities: []core.Entity{}, Relationships: []core.Relationship{}}, err
	}
	if out.Entities == nil {
		out.Entities = []core.Entity{}
	}
	if out.Relationships == nil {
		out.Relationships = []core.Relationship{}
	}
	return out, nil
}
