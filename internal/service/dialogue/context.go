package dialogue

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sandevgo/recallbot/internal/core"
)

const (
	NoMatchesPlaceholder = "No similar conversations found."
	NoFactsPlaceholder   = "No personalized data available."
	TruncationMarker     = "[truncated]"
)

// RenderMatches builds the similarity block, one "- (score) text" line per
// match. Over budget, the block is cut after the last complete line that
// fits and the truncation marker is appended. Budget is in characters.
func RenderMatches(matches []core.MemoryMatch, budget int) string {
	if len(matches) == 0 {
		return NoMatchesPlaceholder
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- (%.3f) %s", m.Score, flatten(m.Text)))
	}
	block := strings.Join(lines, "\n")

	runes := []rune(block)
	if budget <= 0 || len(runes) <= budget {
		return block
	}

	// a newline right at the budget still closes a complete line
	cut := string(runes[:budget+1])
	idx := strings.LastIndex(cut, "\n")
	if idx <= 0 {
		return TruncationMarker
	}
	return cut[:idx] + "\n" + TruncationMarker
}

// flatten keeps a stored fragment on one line of the block.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MergeFacts overlays user facts on global ones.
func MergeFacts(global, user map[string]string) map[string]string {
	out := make(map[string]string, len(global)+len(user))
	maps.Copy(out, global)
	maps.Copy(out, user)
	return out
}

// RenderFacts lists facts as "- key: value", sorted by key.
func RenderFacts(facts map[string]string) string {
	if len(facts) == 0 {
		return NoFactsPlaceholder
	}

	var sb strings.Builder
	for i, k := range slices.Sorted(maps.Keys(facts)) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s: %s", k, facts[k])
	}
	return sb.String()
}

// FormatHistory renders entries oldest first. Input is most-recent first,
// the order HistoryCache.GetRecent returns.
func FormatHistory(recentFirst []core.HistoryEntry) string {
	var sb strings.Builder
	for i := len(recentFirst) - 1; i >= 0; i-- {
		e := recentFirst[i]
		fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", e.User, e.Bot)
	}
	return strings.TrimRight(sb.String(), "\n")
}
