package dialogue

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
	// MaxRunes caps each chunk's length; zero disables the cap.
	MaxRunes int
}

func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxTokens:     400,
		OverlapTokens: 50,
	}
}

type chunker struct {
	cfg   ChunkerConfig
	count TokenCounter
}

// ChunkText packs sentences into chunks under the token and rune limits.
// Consecutive chunks share up to OverlapTokens of trailing sentences.
// Sentences too long for one chunk are split on words, and words on runes.
func ChunkText(text string, cfg ChunkerConfig, count TokenCounter) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if count == nil {
		count = TiktokenCounter
	}
	c := chunker{cfg: cfg, count: count}

	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentTokens := 0
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
	}

	for i, s := range sentences {
		tokens := count(s)
		if !c.fits(s, tokens) {
			flush()
			chunks = append(chunks, c.splitLong(s)...)
			continue
		}

		if len(current) > 0 && !c.fits(joinWith(current, s), currentTokens+tokens) {
			flush()
			current = c.overlap(sentences, i, s)
			if len(current) > 0 {
				currentTokens = count(strings.Join(current, " "))
			}
		}

		current = append(current, s)
		currentTokens += tokens
	}
	flush()

	return chunks
}

func (c chunker) fits(s string, tokens int) bool {
	if tokens > c.cfg.MaxTokens {
		return false
	}
	return c.cfg.MaxRunes <= 0 || utf8.RuneCountInString(s) <= c.cfg.MaxRunes
}

// overlap returns the sentences before idx that carry into the next chunk,
// or nothing when they would not fit together with next.
func (c chunker) overlap(sentences []string, idx int, next string) []string {
	var out []string
	tokens := 0
	for i := idx - 1; i >= 0 && tokens < c.cfg.OverlapTokens; i-- {
		out = append([]string{sentences[i]}, out...)
		tokens += c.count(sentences[i])
	}
	if len(out) == 0 {
		return nil
	}

	candidate := joinWith(out, next)
	if !c.fits(candidate, c.count(candidate)) {
		return nil
	}
	return out
}

func (c chunker) splitLong(s string) []string {
	var out []string
	var cur []string
	for _, w := range strings.Fields(s) {
		if !c.fits(w, c.count(w)) {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, " "))
				cur = nil
			}
			out = append(out, c.hardSplit(w)...)
			continue
		}

		if candidate := joinWith(cur, w); len(cur) > 0 && !c.fits(candidate, c.count(candidate)) {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

func (c chunker) hardSplit(w string) []string {
	limit := c.cfg.MaxRunes
	if limit <= 0 {
		return []string{w}
	}
	runes := []rune(w)
	var out []string
	for i := 0; i < len(runes); i += limit {
		out = append(out, string(runes[i:min(i+limit, len(runes))]))
	}
	return out
}

func joinWith(parts []string, next string) string {
	if len(parts) == 0 {
		return next
	}
	return strings.Join(parts, " ") + " " + next
}

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true, '．': true, '…': true,
}

// splitSentences breaks paragraphs into sentences. A terminator ends a
// sentence when followed by space, end of text or a CJK character.
func splitSentences(text string) []string {
	var sentences []string

	for _, para := range splitParagraphs(text) {
		var current strings.Builder
		runes := []rune(para)

		for i, r := range runes {
			current.WriteRune(r)

			if sentenceEnders[r] && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1])) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 && text != "" {
		return []string{text}
	}
	return sentences
}

// splitParagraphs splits on blank lines and unwraps soft line breaks.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// Import chunks a document so every piece is short enough to store, then
// stores the pieces in one batch.
func (m *Manager) Import(ctx context.Context, userID, text, source string) (int, error) {
	cfg := DefaultChunkerConfig()
	if m.cfg.MaxStoreChars > 1 {
		cfg.MaxRunes = m.cfg.MaxStoreChars - 1
	}
	return m.StoreMany(ctx, userID, ChunkText(text, cfg, m.tokens), source)
}
