package memory

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	defaultQueueSize          = 256
	defaultBatchSize          = 100
	defaultExtractionInterval = 2 * time.Minute
	windowSize                = 20
	windowOverlap             = 5
)

// EntityExtractor is the part of the generator the extractor needs.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) core.Entities
}

type pending struct {
	userID string
	text   string
}

// Extractor turns queued user messages into user-owned facts in the
// background. Relationships whose source is the user become facts keyed
// by the relationship type.
type Extractor struct {
	facts     core.FactStore
	extractor EntityExtractor
	queue     chan pending
	dropped   atomic.Int64
	mu        sync.Mutex

	Interval  time.Duration
	BatchSize int
}

func NewExtractor(facts core.FactStore, extractor EntityExtractor) *Extractor {
	return &Extractor{
		facts:     facts,
		extractor: extractor,
		queue:     make(chan pending, defaultQueueSize),
		Interval:  defaultExtractionInterval,
		BatchSize: defaultBatchSize,
	}
}

// Enqueue never blocks. Texts are dropped when the queue is full.
func (e *Extractor) Enqueue(userID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	select {
	case e.queue <- pending{userID: userID, text: text}:
	default:
		e.dropped.Add(1)
	}
}

func (e *Extractor) Dropped() int64 {
	return e.dropped.Load()
}

func (e *Extractor) Start(ctx context.Context) error {
	logger := log.WithComponent(ctx, "extractor")
	logger.Info().Dur("interval", e.Interval).Msg("starting fact extractor")

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := e.Flush(logger.WithContext(ctx))
			if n > 0 {
				logger.Debug().Int("facts", n).Msg("extraction batch done")
			}
		}
	}
}

// Shutdown discards whatever is still queued; providers are not called
// with a cancelled context.
func (e *Extractor) Shutdown(ctx context.Context) error {
	if dropped := e.Dropped(); dropped > 0 {
		log.FromCtx(ctx).Warn().Int64("dropped", dropped).Msg("extractor queue overflowed during run")
	}
	return nil
}

// Flush processes up to BatchSize queued texts and returns the number of
// facts written.
func (e *Extractor) Flush(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	batch := e.drain()
	if len(batch) == 0 {
		return 0
	}

	written := 0
	for userID, texts := range groupByUser(batch) {
		for _, window := range createSlidingWindows(texts, windowSize, windowOverlap) {
			written += e.processWindow(ctx, userID, window)
		}
	}
	return written
}

func (e *Extractor) drain() []pending {
	var batch []pending
	for len(batch) < e.BatchSize {
		select {
		case p := <-e.queue:
			batch = append(batch, p)
		default:
			return batch
		}
	}
	return batch
}

func (e *Extractor) processWindow(ctx context.Context, userID string, window []string) int {
	logger := log.FromCtx(ctx)
	logger.Debug().Str("user_id", userID).Int("count", len(window)).Msg("extracting facts from window")

	entities := e.extractor.ExtractEntities(ctx, strings.Join(window, "\n"))

	written := 0
	for key, value := range FactsFromRelationships(entities.Relationships) {
		if err := e.facts.UpsertFact(ctx, userID, key, value); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("failed to save extracted fact")
			continue
		}
		written++
	}
	return written
}

var selfNames = map[string]struct{}{
	"user": {}, "i": {}, "me": {}, "myself": {},
}

// FactsFromRelationships keeps relationships whose source is the speaker.
// The key is the relationship type in snake case; later duplicates win.
func FactsFromRelationships(rels []core.Relationship) map[string]string {
	out := make(map[string]string)
	for _, r := range rels {
		if _, ok := selfNames[strings.ToLower(strings.TrimSpace(r.Source))]; !ok {
			continue
		}
		key := factKey(r.Type)
		value := strings.TrimSpace(r.Target)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func factKey(relType string) string {
	fields := strings.FieldsFunc(strings.ToLower(relType), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "_")
}

func groupByUser(batch []pending) map[string][]string {
	out := make(map[string][]string)
	for _, p := range batch {
		out[p.userID] = append(out[p.userID], p.text)
	}
	return out
}

func createSlidingWindows(texts []string, size, overlap int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	step := size - overlap
	var windows [][]string

	for i := 0; i < len(texts); i += step {
		end := i + size
		if end > len(texts) {
			end = len(texts)
		}

		windows = append(windows, texts[i:end])

		if end == len(texts) {
			break
		}
	}

	return windows
}
