package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

type FactsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewFactsRepo(db *sql.DB) *FactsRepo {
	return &FactsRepo{db: db, now: time.Now}
}

// UpsertFact overwrites value and timestamp for an existing (owner, key).
// Concurrent writers race; the last one wins.
func (r *FactsRepo) UpsertFact(ctx context.Context, owner, key, value string) error {
	query := `
		INSERT INTO facts (owner, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, owner, key, value, r.now().UTC()); err != nil {
		return fmt.Errorf("%w: upsert fact %q: %v", core.ErrMemoryStore, key, err)
	}
	return nil
}

func (r *FactsRepo) GetFact(ctx context.Context, owner, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM facts WHERE owner = ? AND key = ?`, owner, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get fact %q: %v", core.ErrMemoryStore, key, err)
	}
	return value, true, nil
}

func (r *FactsRepo) GetAllFacts(ctx context.Context, owner string) (map[string]string, error) {
	records, err := r.ListFacts(ctx, owner)
	if err != nil {
		return nil, err
	}

	facts := make(map[string]string, len(records))
	for _, rec := range records {
		facts[rec.Key] = rec.Value
	}
	return facts, nil
}

// ListFacts returns the owner's records ordered by key.
func (r *FactsRepo) ListFacts(ctx context.Context, owner string) ([]core.FactRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT owner, key, value, updated_at FROM facts WHERE owner = ? ORDER BY key`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list facts: %v", core.ErrMemoryStore, err)
	}
	defer rows.Close()

	var records []core.FactRecord
	for rows.Next() {
		var rec core.FactRecord
		if err := rows.Scan(&rec.Owner, &rec.Key, &rec.Value, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan fact: %v", core.ErrMemoryStore, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *FactsRepo) DeleteFact(ctx context.Context, owner, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM facts WHERE owner = ? AND key = ?`, owner, key); err != nil {
		return fmt.Errorf("%w: delete fact %q: %v", core.ErrMemoryStore, key, err)
	}
	return nil
}
