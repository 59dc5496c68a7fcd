package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialRing_SkipsEmptyKeys(t *testing.T) {
	r := NewCredentialRing([]string{"a", "", "b"})
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "b", r.Key(1))
}

func TestCredentialRing_AdvanceWraps(t *testing.T) {
	r := NewCredentialRing([]string{"a", "b", "c"})

	r.Advance(0)
	assert.Equal(t, 1, r.Current())
	r.Advance(1)
	r.Advance(2)
	assert.Equal(t, 0, r.Current())
}

func TestCredentialRing_StaleAdvanceIsNoop(t *testing.T) {
	r := NewCredentialRing([]string{"a", "b", "c"})

	r.Advance(0)
	r.Advance(0)
	assert.Equal(t, 1, r.Current(), "second failure on the same credential must not skip b")
}

func TestCredentialRing_ConcurrentAdvance(t *testing.T) {
	const keys = 4
	r := NewCredentialRing([]string{"a", "b", "c", "d"})

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cur := r.Current()
				assert.GreaterOrEqual(t, cur, 0)
				assert.Less(t, cur, keys)
				r.Advance(cur)
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, r.Current(), 0)
	assert.Less(t, r.Current(), keys)
}
