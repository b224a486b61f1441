package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/lifequest/internal/models"
)

const goalColumns = "id, currency, title, description, target_amount, current_amount, deadline, completed, completed_at, created_at, updated_at"

type goalRow struct {
	ID            string         `db:"id"`
	Currency      string         `db:"currency"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	TargetAmount  int64          `db:"target_amount"`
	CurrentAmount int64          `db:"current_amount"`
	Deadline      sql.NullString `db:"deadline"`
	Completed     bool           `db:"completed"`
	CompletedAt   sql.NullString `db:"completed_at"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func (r goalRow) model() (models.Goal, error) {
	g := models.Goal{
		ID:            r.ID,
		Currency:      models.Currency(r.Currency),
		Title:         r.Title,
		Description:   r.Description,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Completed:     r.Completed,
	}
	var err error
	if g.Deadline, err = parseNullTS(r.Deadline); err != nil {
		return g, err
	}
	if g.CompletedAt, err = parseNullTS(r.CompletedAt); err != nil {
		return g, err
	}
	if g.CreatedAt, err = parseTS(r.CreatedAt); err != nil {
		return g, err
	}
	if g.UpdatedAt, err = parseTS(r.UpdatedAt); err != nil {
		return g, err
	}
	return g, nil
}

func (q *queries) AddGoal(ctx context.Context, g models.Goal) error {
	_, err := q.exec(ctx,
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		g.ID, string(g.Currency), g.Title, g.Description, g.TargetAmount, g.CurrentAmount,
		nullTS(g.Deadline), g.Completed, nullTS(g.CompletedAt), ts(g.CreatedAt), ts(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (q *queries) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	var row goalRow
	if err := q.getOne(ctx, &row, "goal", id, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id); err != nil {
		return models.Goal{}, err
	}
	return row.model()
}

func (q *queries) ListGoals(ctx context.Context, currency models.Currency, completed *bool) ([]models.Goal, error) {
	var w where
	if currency != "" {
		w.add("currency = ?", string(currency))
	}
	if completed != nil {
		w.add("completed = ?", *completed)
	}

	var rows []goalRow
	if err := q.selectAll(ctx, &rows, "SELECT "+goalColumns+" FROM goals"+w.String()+" ORDER BY created_at DESC", w.args...); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return convertAll(rows, goalRow.model)
}

func (q *queries) UpdateGoal(ctx context.Context, g models.Goal) error {
	return q.execOne(ctx, "goal", g.ID,
		`UPDATE goals SET title = ?, description = ?, target_amount = ?, current_amount = ?, deadline = ?,
		 completed = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		g.Title, g.Description, g.TargetAmount, g.CurrentAmount, nullTS(g.Deadline),
		g.Completed, nullTS(g.CompletedAt), ts(g.UpdatedAt), g.ID)
}

func (q *queries) DeleteGoal(ctx context.Context, id string) error {
	return q.execOne(ctx, "goal", id, "DELETE FROM goals WHERE id = ?", id)
}
