// Package recommend ranks meals and study items for the user's current state.
// Everything here is pure; callers load the candidates.
package recommend

import (
	"sort"
	"strings"

	"github.com/julianstephens/lifequest/internal/models"
)

func energyWeight(energy int) float64 {
	switch {
	case energy < 30:
		return 2.0
	case energy < 60:
		return 1.5
	default:
		return 0.5
	}
}

func fatigueWeight(fatigue int) float64 {
	switch {
	case fatigue > 70:
		return 2.0
	case fatigue > 40:
		return 1.5
	default:
		return 0.5
	}
}

func calorieBonus(calories int) float64 {
	switch {
	case calories >= 300 && calories <= 800:
		return 10
	case calories >= 200 && calories <= 1000:
		return 5
	default:
		return 0
	}
}

// MealScore weighs a meal's energy boost and fatigue reduction against the
// current energy and fatigue levels (0-100).
func MealScore(m models.Meal, energy, fatigue int) float64 {
	score := float64(m.EnergyBoost)*energyWeight(energy) +
		float64(m.FatigueReduction)*fatigueWeight(fatigue) +
		calorieBonus(m.Calories)
	if m.Protein > 0 && m.Carbs > 0 && m.Fat > 0 {
		score += 5
	}
	return score
}

// MealReason explains MealScore in a few words.
func MealReason(m models.Meal, energy, fatigue int) string {
	var reasons []string

	if energy < 30 && m.EnergyBoost > 20 {
		reasons = append(reasons, "strong energy recovery")
	} else if energy < 60 && m.EnergyBoost > 10 {
		reasons = append(reasons, "restores energy")
	}

	if fatigue > 70 && m.FatigueReduction > 20 {
		reasons = append(reasons, "strong fatigue relief")
	} else if fatigue > 40 && m.FatigueReduction > 10 {
		reasons = append(reasons, "reduces fatigue")
	}

	if m.Calories >= 300 && m.Calories <= 800 {
		reasons = append(reasons, "moderate calories")
	}
	if m.Protein > 20 {
		reasons = append(reasons, "high protein")
	}

	if len(reasons) == 0 {
		return "balanced meal"
	}
	return strings.Join(reasons, ", ")
}

// RecommendMeals scores every meal of mealType (all types when empty) and
// returns them best first. Equal scores keep their input order.
func RecommendMeals(meals []models.Meal, energy, fatigue int, mealType models.MealType) []models.MealRecommendation {
	recs := make([]models.MealRecommendation, 0, len(meals))
	for _, m := range meals {
		if mealType != "" && m.Type != mealType {
			continue
		}
		recs = append(recs, models.MealRecommendation{
			Meal:   m,
			Score:  MealScore(m, energy, fatigue),
			Reason: MealReason(m, energy, fatigue),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}
