package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

// Backend speaks one vendor API with an explicit credential.
type Backend interface {
	ListModels(ctx context.Context, apiKey string) ([]string, error)
	Complete(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// Rotating drives a Backend over a credential ring. Each Generate call
// tries every credential at most once, starting at the ring cursor.
type Rotating struct {
	name      string
	backend   Backend
	ring      *CredentialRing
	preferred []string
	// discover lists models per credential; when false preferred[0] is used
	discover bool
}

func NewRotating(name string, backend Backend, keys, preferred []string, discover bool) *Rotating {
	return &Rotating{
		name:      name,
		backend:   backend,
		ring:      NewCredentialRing(keys),
		preferred: preferred,
		discover:  discover,
	}
}

func (p *Rotating) Name() string {
	return p.name
}

func (p *Rotating) Ring() *CredentialRing {
	return p.ring
}

func (p *Rotating) Generate(ctx context.Context, prompt string) (string, error) {
	n := p.ring.Len()
	if n == 0 {
		return "", fmt.Errorf("%w: %s: %w", core.ErrProviderCallFailed, p.name, core.ErrNoCredentials)
	}

	logger := log.FromCtx(ctx).With().Str("provider", p.name).Logger()
	start := p.ring.Current()

	var errs []error
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		text, err := p.attempt(ctx, p.ring.Key(idx), prompt)
		if err == nil {
			return text, nil
		}

		logger.Warn().Err(err).Int("credential", idx).Msg("credential failed, rotating")
		errs = append(errs, err)
		p.ring.Advance(idx)
	}

	return "", fmt.Errorf("%w: %s: all %d credentials failed: %w", core.ErrProviderCallFailed, p.name, n, errors.Join(errs...))
}

func (p *Rotating) attempt(ctx context.Context, key, prompt string) (string, error) {
	model, err := p.selectModel(ctx, key)
	if err != nil {
		return "", err
	}

	text, err := p.backend.Complete(ctx, key, model, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", model, err)
	}
	return text, nil
}

func (p *Rotating) selectModel(ctx context.Context, key string) (string, error) {
	if !p.discover {
		if len(p.preferred) == 0 {
			return "", core.ErrNoPreferredModel
		}
		return p.preferred[0], nil
	}

	available, err := p.backend.ListModels(ctx, key)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}
	model, ok := PickModel(p.preferred, available)
	if !ok {
		return "", core.ErrNoPreferredModel
	}
	return model, nil
}

// PickModel returns the first preferred model that is available. Exact
// names win over prefix matches so "gemini-2.5" does not shadow a later
// exact preference.
func PickModel(preferred, available []string) (string, bool) {
	set := make(map[string]struct{}, len(available))
	for _, m := range available {
		set[m] = struct{}{}
	}
	for _, want := range preferred {
		if _, ok := set[want]; ok {
			return want, true
		}
	}
	for _, want := range preferred {
		for _, m := range available {
			if strings.HasPrefix(m, want) {
				return m, true
			}
		}
	}
	return "", false
}
