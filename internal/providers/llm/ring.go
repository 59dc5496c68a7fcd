package llm

import "sync"

// CredentialRing is a rotating cursor over a fixed credential list.
// The cursor stays on a credential while it works and moves on failure.
type CredentialRing struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

func NewCredentialRing(keys []string) *CredentialRing {
	filtered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			filtered = append(filtered, k)
		}
	}
	return &CredentialRing{keys: filtered}
}

func (r *CredentialRing) Len() int {
	return len(r.keys)
}

func (r *CredentialRing) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

func (r *CredentialRing) Key(idx int) string {
	return r.keys[idx%len(r.keys)]
}

// Advance moves the cursor past idx. If another caller already moved
// it, the call is a no-op, so concurrent failures on the same credential
// advance the cursor once.
func (r *CredentialRing) Advance(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return
	}
	if r.cursor == idx {
		r.cursor = (idx + 1) % len(r.keys)
	}
}
