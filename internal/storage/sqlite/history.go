package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

// HistoryRepo keeps at most capacity entries per user, evicting the oldest.
type HistoryRepo struct {
	db       *sql.DB
	capacity int
	now      func() time.Time
}

func NewHistoryRepo(db *sql.DB, capacity int) *HistoryRepo {
	if capacity <= 0 {
		capacity = 10
	}
	return &HistoryRepo{db: db, capacity: capacity, now: time.Now}
}

func (h *HistoryRepo) Push(ctx context.Context, userID string, entry core.HistoryEntry) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrMemoryStore, err)
	}
	defer tx.Rollback()

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = h.now()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (user_id, conversation_id, user_text, bot_text, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, entry.ConversationID, entry.User, entry.Bot, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert history: %v", core.ErrMemoryStore, err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`, userID, userID, h.capacity)
	if err != nil {
		return fmt.Errorf("%w: trim history: %v", core.ErrMemoryStore, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrMemoryStore, err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		log.FromCtx(ctx).Debug().Str("user", userID).Int64("evicted", n).Msg("history trimmed")
	}
	return nil
}

// GetRecent returns up to limit entries, most recent first.
func (h *HistoryRepo) GetRecent(ctx context.Context, userID string, limit int) ([]core.HistoryEntry, error) {
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, user_id, conversation_id, user_text, bot_text, created_at
		FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query history: %v", core.ErrMemoryStore, err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ConversationID, &e.User, &e.Bot, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan history: %v", core.ErrMemoryStore, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMemoryStore, err)
	}
	return entries, nil
}
