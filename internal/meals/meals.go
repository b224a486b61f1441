// Package meals keeps the meal catalog and a log of what was eaten.
package meals

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/recommend"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/validation"
)

type Log struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{store: store, now: now}
}

func (l *Log) Create(ctx context.Context, m models.Meal) (models.Meal, error) {
	now := l.now()
	m.ID = uuid.NewString()
	m.Name = strings.TrimSpace(m.Name)
	if m.Category == "" {
		m.Category = models.MealOther
	}
	if err := validateMeal(m); err != nil {
		return models.Meal{}, err
	}
	m.CreatedAt, m.UpdatedAt = now, now
	if err := l.store.AddMeal(ctx, m); err != nil {
		return models.Meal{}, err
	}
	logger.Debug("Created meal", "id", m.ID, "name", m.Name)
	return m, nil
}

func (l *Log) Get(ctx context.Context, id string) (models.Meal, error) {
	return l.store.GetMeal(ctx, id)
}

// List returns meals ordered by name.
func (l *Log) List(ctx context.Context, filter models.MealFilter) ([]models.Meal, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.InvalidInputf("unknown meal type %q", filter.Type)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperrors.InvalidInputf("unknown meal category %q", filter.Category)
	}
	return l.store.ListMeals(ctx, filter)
}

func (l *Log) Update(ctx context.Context, id string, upd models.MealUpdate) (models.Meal, error) {
	m, err := l.store.GetMeal(ctx, id)
	if err != nil {
		return models.Meal{}, err
	}
	if upd.Name != nil {
		m.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		m.Description = *upd.Description
	}
	if upd.Type != nil {
		m.Type = *upd.Type
	}
	if upd.Category != nil {
		m.Category = *upd.Category
	}
	if upd.Calories != nil {
		m.Calories = *upd.Calories
	}
	if upd.Protein != nil {
		m.Protein = *upd.Protein
	}
	if upd.Carbs != nil {
		m.Carbs = *upd.Carbs
	}
	if upd.Fat != nil {
		m.Fat = *upd.Fat
	}
	if upd.EnergyBoost != nil {
		m.EnergyBoost = *upd.EnergyBoost
	}
	if upd.FatigueReduction != nil {
		m.FatigueReduction = *upd.FatigueReduction
	}
	if upd.IsRecommended != nil {
		m.IsRecommended = *upd.IsRecommended
	}
	if err := validateMeal(m); err != nil {
		return models.Meal{}, err
	}
	m.UpdatedAt = l.now()
	if err := l.store.UpdateMeal(ctx, m); err != nil {
		return models.Meal{}, err
	}
	return m, nil
}

func (l *Log) Delete(ctx context.Context, id string) error {
	return l.store.DeleteMeal(ctx, id)
}

// Recommend scores every meal, optionally of one type, for the given energy
// and fatigue levels (0-100).
func (l *Log) Recommend(ctx context.Context, energy, fatigue int, mealType models.MealType) ([]models.MealRecommendation, error) {
	if err := validation.IntRange("energy", energy, 0, 100); err != nil {
		return nil, err
	}
	if err := validation.IntRange("fatigue", fatigue, 0, 100); err != nil {
		return nil, err
	}
	meals, err := l.List(ctx, models.MealFilter{Type: mealType})
	if err != nil {
		return nil, err
	}
	return recommend.RecommendMeals(meals, energy, fatigue, mealType), nil
}

// Consume logs a snapshot of the meal. A nil consumedAt means now.
func (l *Log) Consume(ctx context.Context, mealID string, consumedAt *time.Time) (models.MealHistoryEntry, error) {
	m, err := l.store.GetMeal(ctx, mealID)
	if err != nil {
		return models.MealHistoryEntry{}, err
	}
	now := l.now()
	at := now
	if consumedAt != nil {
		at = *consumedAt
	}
	entry := models.MealHistoryEntry{
		ID:               uuid.NewString(),
		MealID:           m.ID,
		MealName:         m.Name,
		MealType:         m.Type,
		Category:         m.Category,
		Calories:         m.Calories,
		EnergyBoost:      m.EnergyBoost,
		FatigueReduction: m.FatigueReduction,
		ConsumedAt:       at,
		CreatedAt:        now,
	}
	if err := l.store.AddMealHistory(ctx, entry); err != nil {
		return models.MealHistoryEntry{}, err
	}
	logger.Info("Logged meal", "meal", m.Name, "consumed_at", at)
	return entry, nil
}

// History returns meals eaten in the last days, newest first.
func (l *Log) History(ctx context.Context, days int) ([]models.MealHistoryEntry, error) {
	if days <= 0 {
		days = constants.DefaultMealHistDays
	}
	return l.store.ListMealHistory(ctx, l.now().AddDate(0, 0, -days), 0)
}

// Statistics totals the meals eaten in the last days. Most-consumed ties go
// to the alphabetically first name.
func (l *Log) Statistics(ctx context.Context, days int) (models.MealStats, error) {
	if days <= 0 {
		days = constants.DefaultMealHistDays
	}
	history, err := l.History(ctx, days)
	if err != nil {
		return models.MealStats{}, err
	}

	stats := models.MealStats{Days: days, TotalMeals: len(history)}
	if len(history) == 0 {
		return stats, nil
	}
	categories := make(map[string]int)
	types := make(map[string]int)
	for _, h := range history {
		stats.TotalCalories += h.Calories
		stats.TotalEnergyBoost += h.EnergyBoost
		stats.TotalFatigueReduction += h.FatigueReduction
		categories[string(h.Category)]++
		types[string(h.MealType)]++
	}
	stats.AvgCalories = float64(stats.TotalCalories) / float64(stats.TotalMeals)
	stats.MostConsumedCategory = models.MealCategory(mostCommon(categories))
	stats.MostConsumedType = models.MealType(mostCommon(types))
	return stats, nil
}

func mostCommon(counts map[string]int) string {
	var best string
	for name, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && name < best) {
			best = name
		}
	}
	return best
}

func validateMeal(m models.Meal) error {
	if m.Name == "" {
		return apperrors.InvalidInputf("name is required")
	}
	if !m.Type.Valid() {
		return apperrors.InvalidInputf("unknown meal type %q", m.Type)
	}
	if !m.Category.Valid() {
		return apperrors.InvalidInputf("unknown meal category %q", m.Category)
	}
	checks := []struct {
		field string
		v     float64
	}{
		{"calories", float64(m.Calories)},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
		{"energy boost", float64(m.EnergyBoost)},
		{"fatigue reduction", float64(m.FatigueReduction)},
	}
	for _, c := range checks {
		if err := validation.NonNegative(c.field, c.v); err != nil {
			return err
		}
	}
	return nil
}
