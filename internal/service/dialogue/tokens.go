package dialogue

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/recallbot/internal/core"
)

// TokenCounter returns the token count of text.
type TokenCounter func(text string) int

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// TiktokenCounter counts cl100k tokens. If the encoding cannot be loaded
// it estimates four characters per token.
func TiktokenCounter(text string) int {
	enc, err := getTokenizer()
	if err != nil {
		return EstimateCounter(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// EstimateCounter assumes four characters per token. It needs no
// encoding download.
func EstimateCounter(text string) int {
	return (len([]rune(text)) + 3) / 4
}

// TrimHistory drops the oldest entries until the formatted history fits
// budget tokens. Entries are most-recent first; so is the result.
func TrimHistory(recentFirst []core.HistoryEntry, budget int, count TokenCounter) []core.HistoryEntry {
	if budget <= 0 || count == nil {
		return recentFirst
	}

	total := 0
	for i, e := range recentFirst {
		total += count("User: " + e.User + "\nAssistant: " + e.Bot + "\n")
		if total > budget {
			return recentFirst[:i]
		}
	}
	return recentFirst
}
