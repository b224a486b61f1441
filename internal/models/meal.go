package models

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type MealCategory string

const (
	MealJapanese MealCategory = "japanese"
	MealWestern  MealCategory = "western"
	MealChinese  MealCategory = "chinese"
	MealItalian  MealCategory = "italian"
	MealFastFood MealCategory = "fast_food"
	MealHealthy  MealCategory = "healthy"
	MealOther    MealCategory = "other"
)

var validMealTypes = map[MealType]bool{MealBreakfast: true, MealLunch: true, MealDinner: true, MealSnack: true}

var validMealCategories = map[MealCategory]bool{
	MealJapanese: true, MealWestern: true, MealChinese: true, MealItalian: true,
	MealFastFood: true, MealHealthy: true, MealOther: true,
}

func (t MealType) Valid() bool     { return validMealTypes[t] }
func (c MealCategory) Valid() bool { return validMealCategories[c] }

type Meal struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Type             MealType     `json:"meal_type"`
	Category         MealCategory `json:"category"`
	Calories         int          `json:"calories"`
	Protein          float64      `json:"protein"`
	Carbs            float64      `json:"carbs"`
	Fat              float64      `json:"fat"`
	EnergyBoost      int          `json:"energy_boost"`
	FatigueReduction int          `json:"fatigue_reduction"`
	IsRecommended    bool         `json:"is_recommended"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type MealUpdate struct {
	Name             *string       `json:"name,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Type             *MealType     `json:"meal_type,omitempty"`
	Category         *MealCategory `json:"category,omitempty"`
	Calories         *int          `json:"calories,omitempty"`
	Protein          *float64      `json:"protein,omitempty"`
	Carbs            *float64      `json:"carbs,omitempty"`
	Fat              *float64      `json:"fat,omitempty"`
	EnergyBoost      *int          `json:"energy_boost,omitempty"`
	FatigueReduction *int          `json:"fatigue_reduction,omitempty"`
	IsRecommended    *bool         `json:"is_recommended,omitempty"`
}

type MealFilter struct {
	Type          MealType
	Category      MealCategory
	IsRecommended *bool
}

// MealHistoryEntry is a copy of a meal taken when it was eaten.
type MealHistoryEntry struct {
	ID               string       `json:"id"`
	MealID           string       `json:"meal_id"`
	MealName         string       `json:"meal_name"`
	MealType         MealType     `json:"meal_type"`
	Category         MealCategory `json:"category"`
	Calories         int          `json:"calories"`
	EnergyBoost      int          `json:"energy_boost"`
	FatigueReduction int          `json:"fatigue_reduction"`
	ConsumedAt       time.Time    `json:"consumed_at"`
	CreatedAt        time.Time    `json:"created_at"`
}

type MealStats struct {
	Days                  int          `json:"period_days"`
	TotalMeals            int          `json:"total_meals"`
	TotalCalories         int          `json:"total_calories"`
	TotalEnergyBoost      int          `json:"total_energy_boost"`
	TotalFatigueReduction int          `json:"total_fatigue_reduction"`
	AvgCalories           float64      `json:"avg_calories_per_meal"`
	MostConsumedCategory  MealCategory `json:"most_consumed_category,omitempty"`
	MostConsumedType      MealType     `json:"most_consumed_meal_type,omitempty"`
}

type MealRecommendation struct {
	Meal   Meal    `json:"meal"`
	Score  float64 `json:"recommendation_score"`
	Reason string  `json:"reason"`
}
