package generator

import (
	"sync"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

const DefaultCooldown = 30 * time.Second

// Cooldown tracks the last failure per provider. A provider is
// unavailable on [failure, failure+window) and available again at
// failure+window. Safe for concurrent use.
type Cooldown struct {
	mu       sync.Mutex
	window   time.Duration
	now      func() time.Time
	failures map[string]time.Time
}

func NewCooldown(window time.Duration, now func() time.Time) *Cooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Cooldown{
		window:   window,
		now:      now,
		failures: make(map[string]time.Time),
	}
}

func (c *Cooldown) Available(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.failures[name]
	if !ok {
		return true
	}
	return c.now().Sub(last) >= c.window
}

// RecordFailure sets or refreshes the failure time to now.
func (c *Cooldown) RecordFailure(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[name] = c.now()
}

func (c *Cooldown) Clear(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failures, name)
}

func (c *Cooldown) Window() time.Duration {
	return c.window
}

func (c *Cooldown) Status(names []string) []core.ProviderStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]core.ProviderStatus, 0, len(names))
	for _, name := range names {
		st := core.ProviderStatus{Name: name, Available: true}
		if last, ok := c.failures[name]; ok {
			st.LastFailure = last
			st.RetryAt = last.Add(c.window)
			st.Available = now.Sub(last) >= c.window
		}
		out = append(out, st)
	}
	return out
}
