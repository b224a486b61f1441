package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/lifequest/internal/models"
)

const taskColumns = "id, title, description, deadline, fatigue, reward, completed, task_type, category, duration, priority, completed_at, created_at, updated_at"

type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Deadline    sql.NullString `db:"deadline"`
	Fatigue     int            `db:"fatigue"`
	Reward      int64          `db:"reward"`
	Completed   bool           `db:"completed"`
	TaskType    string         `db:"task_type"`
	Category    string         `db:"category"`
	Duration    int            `db:"duration"`
	Priority    int            `db:"priority"`
	CompletedAt sql.NullString `db:"completed_at"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r taskRow) model() (models.Task, error) {
	t := models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Fatigue:     r.Fatigue,
		Reward:      r.Reward,
		Completed:   r.Completed,
		Type:        models.TaskType(r.TaskType),
		Category:    r.Category,
		DurationMin: r.Duration,
		Priority:    r.Priority,
	}
	var err error
	if t.Deadline, err = parseNullTS(r.Deadline); err != nil {
		return t, err
	}
	if t.CompletedAt, err = parseNullTS(r.CompletedAt); err != nil {
		return t, err
	}
	if t.CreatedAt, err = parseTS(r.CreatedAt); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTS(r.UpdatedAt); err != nil {
		return t, err
	}
	return t, nil
}

func (q *queries) AddTask(ctx context.Context, t models.Task) error {
	_, err := q.exec(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Title, t.Description, nullTS(t.Deadline), t.Fatigue, t.Reward, t.Completed,
		string(t.Type), t.Category, t.DurationMin, t.Priority, nullTS(t.CompletedAt),
		ts(t.CreatedAt), ts(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (q *queries) GetTask(ctx context.Context, id string) (models.Task, error) {
	var row taskRow
	if err := q.getOne(ctx, &row, "task", id, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id); err != nil {
		return models.Task{}, err
	}
	return row.model()
}

func (q *queries) ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	var w where
	if f.Type != "" {
		w.add("task_type = ?", string(f.Type))
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Completed != nil {
		w.add("completed = ?", *f.Completed)
	}
	if f.DeadlineUntil != nil {
		w.add("deadline IS NOT NULL AND deadline <= ?", ts(*f.DeadlineUntil))
	}
	if f.DeadlineSince != nil {
		w.add("deadline >= ?", ts(*f.DeadlineSince))
	}

	order := " ORDER BY priority DESC, CASE WHEN deadline IS NULL THEN 1 ELSE 0 END, deadline ASC, created_at ASC"
	if f.CompletedOrder {
		order = " ORDER BY completed_at DESC, created_at DESC"
	}

	var rows []taskRow
	query := "SELECT " + taskColumns + " FROM tasks" + w.String() + order + limitClause(f.Limit)
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return convertAll(rows, taskRow.model)
}

func (q *queries) UpdateTask(ctx context.Context, t models.Task) error {
	return q.execOne(ctx, "task", t.ID,
		`UPDATE tasks SET title = ?, description = ?, deadline = ?, fatigue = ?, reward = ?, completed = ?,
		 task_type = ?, category = ?, duration = ?, priority = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, nullTS(t.Deadline), t.Fatigue, t.Reward, t.Completed,
		string(t.Type), t.Category, t.DurationMin, t.Priority, nullTS(t.CompletedAt), ts(t.UpdatedAt), t.ID)
}

func (q *queries) DeleteTask(ctx context.Context, id string) error {
	return q.execOne(ctx, "task", id, "DELETE FROM tasks WHERE id = ?", id)
}

func (q *queries) ResetDailyTasks(ctx context.Context, at time.Time) (int64, error) {
	res, err := q.exec(ctx,
		"UPDATE tasks SET completed = ?, completed_at = NULL, updated_at = ? WHERE task_type = ? AND completed = ?",
		false, ts(at), string(models.TaskTypeDaily), true)
	if err != nil {
		return 0, fmt.Errorf("failed to reset daily tasks: %w", err)
	}
	return res.RowsAffected()
}
