package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/lifequest/internal/models"
)

const mealColumns = "id, name, description, meal_type, category, calories, protein, carbs, fat, energy_boost, fatigue_reduction, is_recommended, created_at, updated_at"

type mealRow struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	Description      string  `db:"description"`
	MealType         string  `db:"meal_type"`
	Category         string  `db:"category"`
	Calories         int     `db:"calories"`
	Protein          float64 `db:"protein"`
	Carbs            float64 `db:"carbs"`
	Fat              float64 `db:"fat"`
	EnergyBoost      int     `db:"energy_boost"`
	FatigueReduction int     `db:"fatigue_reduction"`
	IsRecommended    bool    `db:"is_recommended"`
	CreatedAt        string  `db:"created_at"`
	UpdatedAt        string  `db:"updated_at"`
}

func (r mealRow) model() (models.Meal, error) {
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.Meal{}, err
	}
	updated, err := parseTS(r.UpdatedAt)
	if err != nil {
		return models.Meal{}, err
	}
	return models.Meal{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Type:             models.MealType(r.MealType),
		Category:         models.MealCategory(r.Category),
		Calories:         r.Calories,
		Protein:          r.Protein,
		Carbs:            r.Carbs,
		Fat:              r.Fat,
		EnergyBoost:      r.EnergyBoost,
		FatigueReduction: r.FatigueReduction,
		IsRecommended:    r.IsRecommended,
		CreatedAt:        created,
		UpdatedAt:        updated,
	}, nil
}

func (q *queries) AddMeal(ctx context.Context, m models.Meal) error {
	_, err := q.exec(ctx,
		"INSERT INTO meals ("+mealColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, m.Description, string(m.Type), string(m.Category), m.Calories, m.Protein,
		m.Carbs, m.Fat, m.EnergyBoost, m.FatigueReduction, m.IsRecommended, ts(m.CreatedAt), ts(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

func (q *queries) GetMeal(ctx context.Context, id string) (models.Meal, error) {
	var row mealRow
	if err := q.getOne(ctx, &row, "meal", id, "SELECT "+mealColumns+" FROM meals WHERE id = ?", id); err != nil {
		return models.Meal{}, err
	}
	return row.model()
}

func (q *queries) ListMeals(ctx context.Context, f models.MealFilter) ([]models.Meal, error) {
	var w where
	if f.Type != "" {
		w.add("meal_type = ?", string(f.Type))
	}
	if f.Category != "" {
		w.add("category = ?", string(f.Category))
	}
	if f.IsRecommended != nil {
		w.add("is_recommended = ?", *f.IsRecommended)
	}

	var rows []mealRow
	if err := q.selectAll(ctx, &rows, "SELECT "+mealColumns+" FROM meals"+w.String()+" ORDER BY name ASC, id ASC", w.args...); err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return convertAll(rows, mealRow.model)
}

func (q *queries) UpdateMeal(ctx context.Context, m models.Meal) error {
	return q.execOne(ctx, "meal", m.ID,
		`UPDATE meals SET name = ?, description = ?, meal_type = ?, category = ?, calories = ?, protein = ?,
		 carbs = ?, fat = ?, energy_boost = ?, fatigue_reduction = ?, is_recommended = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.Description, string(m.Type), string(m.Category), m.Calories, m.Protein, m.Carbs, m.Fat,
		m.EnergyBoost, m.FatigueReduction, m.IsRecommended, ts(m.UpdatedAt), m.ID)
}

func (q *queries) DeleteMeal(ctx context.Context, id string) error {
	return q.execOne(ctx, "meal", id, "DELETE FROM meals WHERE id = ?", id)
}

const historyColumns = "id, meal_id, meal_name, meal_type, category, calories, energy_boost, fatigue_reduction, consumed_at, created_at"

type historyRow struct {
	ID               string `db:"id"`
	MealID           string `db:"meal_id"`
	MealName         string `db:"meal_name"`
	MealType         string `db:"meal_type"`
	Category         string `db:"category"`
	Calories         int    `db:"calories"`
	EnergyBoost      int    `db:"energy_boost"`
	FatigueReduction int    `db:"fatigue_reduction"`
	ConsumedAt       string `db:"consumed_at"`
	CreatedAt        string `db:"created_at"`
}

func (r historyRow) model() (models.MealHistoryEntry, error) {
	consumed, err := parseTS(r.ConsumedAt)
	if err != nil {
		return models.MealHistoryEntry{}, err
	}
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.MealHistoryEntry{}, err
	}
	return models.MealHistoryEntry{
		ID:               r.ID,
		MealID:           r.MealID,
		MealName:         r.MealName,
		MealType:         models.MealType(r.MealType),
		Category:         models.MealCategory(r.Category),
		Calories:         r.Calories,
		EnergyBoost:      r.EnergyBoost,
		FatigueReduction: r.FatigueReduction,
		ConsumedAt:       consumed,
		CreatedAt:        created,
	}, nil
}

func (q *queries) AddMealHistory(ctx context.Context, h models.MealHistoryEntry) error {
	_, err := q.exec(ctx,
		"INSERT INTO meal_history ("+historyColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		h.ID, h.MealID, h.MealName, string(h.MealType), string(h.Category), h.Calories,
		h.EnergyBoost, h.FatigueReduction, ts(h.ConsumedAt), ts(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert meal history: %w", err)
	}
	return nil
}

func (q *queries) ListMealHistory(ctx context.Context, since time.Time, limit int) ([]models.MealHistoryEntry, error) {
	var rows []historyRow
	query := "SELECT " + historyColumns + " FROM meal_history WHERE consumed_at >= ? ORDER BY consumed_at DESC" + limitClause(limit)
	if err := q.selectAll(ctx, &rows, query, ts(since)); err != nil {
		return nil, fmt.Errorf("failed to list meal history: %w", err)
	}
	return convertAll(rows, historyRow.model)
}
