// Package goals tracks savings targets for points and coins.
package goals

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
)

type Tracker struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// Create adds a goal. Completed defaults to false.
func (t *Tracker) Create(ctx context.Context, g models.Goal) (models.Goal, error) {
	now := t.now()
	g.ID = uuid.NewString()
	g.Title = strings.TrimSpace(g.Title)
	g.CreatedAt, g.UpdatedAt = now, now
	g.CompletedAt = nil
	if g.Completed {
		g.CompletedAt = &now
	}
	if err := validate(g); err != nil {
		return models.Goal{}, err
	}
	if err := t.store.AddGoal(ctx, g); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (models.Goal, error) {
	return t.store.GetGoal(ctx, id)
}

// List returns goals newest first. Empty currency and nil completed match all.
func (t *Tracker) List(ctx context.Context, currency models.Currency, completed *bool) ([]models.Goal, error) {
	if currency != "" && !currency.Valid() {
		return nil, apperrors.InvalidInputf("unknown currency %q", currency)
	}
	return t.store.ListGoals(ctx, currency, completed)
}

// Update applies upd. Switching completed on stamps completed_at, switching it
// off clears it.
func (t *Tracker) Update(ctx context.Context, id string, upd models.GoalUpdate) (models.Goal, error) {
	g, err := t.store.GetGoal(ctx, id)
	if err != nil {
		return models.Goal{}, err
	}
	now := t.now()

	if upd.Title != nil {
		g.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		g.Description = *upd.Description
	}
	if upd.TargetAmount != nil {
		g.TargetAmount = *upd.TargetAmount
	}
	if upd.CurrentAmount != nil {
		g.CurrentAmount = *upd.CurrentAmount
	}
	if upd.Deadline != nil {
		g.Deadline = upd.Deadline
	}
	if upd.Completed != nil {
		switch {
		case *upd.Completed && !g.Completed:
			g.CompletedAt = &now
		case !*upd.Completed:
			g.CompletedAt = nil
		}
		g.Completed = *upd.Completed
	}
	if err := validate(g); err != nil {
		return models.Goal{}, err
	}

	g.UpdatedAt = now
	if err := t.store.UpdateGoal(ctx, g); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	return t.store.DeleteGoal(ctx, id)
}

func validate(g models.Goal) error {
	if g.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if !g.Currency.Valid() {
		return apperrors.InvalidInputf("unknown currency %q", g.Currency)
	}
	if g.TargetAmount <= 0 {
		return apperrors.InvalidInputf("target amount must be positive, got %d", g.TargetAmount)
	}
	if g.CurrentAmount < 0 {
		return apperrors.InvalidInputf("current amount must be non-negative, got %d", g.CurrentAmount)
	}
	return nil
}
