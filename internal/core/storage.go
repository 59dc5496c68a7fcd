package core

import "context"

type FactStore interface {
	UpsertFact(ctx context.Context, owner, key, value string) error
	GetFact(ctx context.Context, owner, key string) (string, bool, error)
	GetAllFacts(ctx context.Context, owner string) (map[string]string, error)
}

// HistoryCache keeps the most recent entries per user.
// GetRecent returns them most-recent first.
type HistoryCache interface {
	Push(ctx context.Context, userID string, entry HistoryEntry) error
	GetRecent(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

type VectorStore interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) (bool, error)
	Query(ctx context.Context, vector []float32, topK int, userID string) ([]MemoryMatch, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) (int64, error)
	ListTasks(ctx context.Context, userID string) ([]Task, error)
}
