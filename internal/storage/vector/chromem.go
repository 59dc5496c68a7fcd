package vector

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	MetaUserID = "user_id"
	MetaText   = "text"
)

// Store is a chromem-go index with one collection per user. Queries are
// additionally filtered on the user_id metadata field.
type Store struct {
	db          *chromem.DB
	collections map[string]*chromem.Collection
	mu          sync.RWMutex
}

func NewMemoryStore() *Store {
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}
}

// NewPersistentStore keeps the index under path, gzip-compressed.
func NewPersistentStore(path string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	return &Store{
		db:          db,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func collectionName(userID string) string {
	if userID == core.GlobalOwner {
		return "global"
	}
	return "user_" + userID
}

func (s *Store) collection(userID string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, ok := s.collections[userID]
	s.mu.RUnlock()
	if ok {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[userID]; ok {
		return col, nil
	}

	// embeddings are always supplied by the caller
	col, err := s.db.GetOrCreateCollection(collectionName(userID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.collections[userID] = col
	return col, nil
}

// Upsert stores vector under id, replacing an existing document.
// metadata must carry user_id; text is stored as the document content.
func (s *Store) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) (bool, error) {
	userID, ok := metadata[MetaUserID]
	if !ok {
		return false, fmt.Errorf("%w: metadata missing %s", core.ErrMemoryStore, MetaUserID)
	}
	if len(vector) == 0 {
		return false, fmt.Errorf("%w: empty vector", core.ErrMemoryStore)
	}

	col, err := s.collection(userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrMemoryStore, err)
	}

	doc := chromem.Document{
		ID:        id,
		Content:   metadata[MetaText],
		Embedding: vector,
		Metadata:  metadata,
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return false, fmt.Errorf("%w: add document: %v", core.ErrMemoryStore, err)
	}

	log.FromCtx(ctx).Debug().Str("id", id).Str("user", userID).Msg("vector stored")
	return true, nil
}

// Query returns up to topK matches for userID, best first.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, userID string) ([]core.MemoryMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	col, err := s.collection(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMemoryStore, err)
	}

	// chromem rejects nResults above the collection size
	n := min(topK, col.Count())
	if n == 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, n, map[string]string{MetaUserID: userID}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", core.ErrMemoryStore, err)
	}

	matches := make([]core.MemoryMatch, 0, len(results))
	for _, r := range results {
		text := r.Metadata[MetaText]
		if text == "" {
			text = r.Content
		}
		matches = append(matches, core.MemoryMatch{
			ID:       r.ID,
			Score:    r.Similarity,
			Text:     text,
			UserID:   r.Metadata[MetaUserID],
			Metadata: r.Metadata,
		})
	}
	return matches, nil
}

func (s *Store) Count(userID string) int {
	col, err := s.collection(userID)
	if err != nil {
		return 0
	}
	return col.Count()
}
