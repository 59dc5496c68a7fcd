package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

func (r *TasksRepo) CreateTask(ctx context.Context, task core.Task) (int64, error) {
	createdAt := task.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, due_at, priority, category, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.Title, task.Datetime, orDefault(task.Priority, "medium"), orDefault(task.Category, "personal"), task.Notes, createdAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return res.LastInsertId()
}

func (r *TasksRepo) ListTasks(ctx context.Context, userID string) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, due_at, priority, category, notes, created_at FROM tasks WHERE user_id = ? ORDER BY due_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		var t core.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Datetime, &t.Priority, &t.Category, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}


func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
