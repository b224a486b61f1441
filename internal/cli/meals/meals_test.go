package meals

import (
	"testing"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/models"
)

func addMeal(t *testing.T, ctx *cli.Context, cmd MealAddCmd) models.Meal {
	t.Helper()
	if cmd.Category == "" {
		cmd.Category = "other"
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add %q failed: %v", cmd.Name, err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	meals, err := a.Meals.List(ctx.Context(), models.MealFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, m := range meals {
		if m.Name == cmd.Name {
			return m
		}
	}
	t.Fatalf("meal %q not found", cmd.Name)
	return models.Meal{}
}

func TestMealAddValidates(t *testing.T) {
	ctx := clitest.Initialized(t)
	if err := (&MealAddCmd{Name: "Toast", Type: "brunch", Category: "other"}).Run(ctx); err == nil {
		t.Error("expected an unknown meal type to be rejected")
	}
	if err := (&MealAddCmd{Name: "Toast", Type: "breakfast", Category: "fusion"}).Run(ctx); err == nil {
		t.Error("expected an unknown category to be rejected")
	}
}

func TestMealRecommendAndEat(t *testing.T) {
	ctx := clitest.Initialized(t)
	salad := addMeal(t, ctx, MealAddCmd{Name: "Salad", Type: "lunch", Category: "healthy", Calories: 350, EnergyBoost: 6, FatigueReduction: 7, Recommended: true})
	addMeal(t, ctx, MealAddCmd{Name: "Burger", Type: "lunch", Category: "fast_food", Calories: 900, EnergyBoost: 4, FatigueReduction: 1})

	if err := (&MealRecommendCmd{Energy: 20, Fatigue: 80, Type: "lunch"}).Run(ctx); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if err := (&MealRecommendCmd{Energy: 101, Fatigue: 50}).Run(ctx); err == nil {
		t.Error("expected energy above 100 to be rejected")
	}

	if err := (&MealEatCmd{ID: salad.ID, At: "2024-05-06 08:30"}).Run(ctx); err != nil {
		t.Fatalf("eat failed: %v", err)
	}
	if err := (&MealEatCmd{ID: salad.ID}).Run(ctx); err != nil {
		t.Fatalf("eat failed: %v", err)
	}

	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	stats, err := a.Meals.Statistics(ctx.Context(), 7)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalMeals != 2 || stats.TotalCalories != 700 || stats.MostConsumedCategory != models.MealHealthy {
		t.Errorf("stats = %+v", stats)
	}

	for name, cmd := range map[string]interface{ Run(*cli.Context) error }{
		"list":    &MealListCmd{},
		"history": &MealHistoryCmd{Days: 7},
		"stats":   &MealStatsCmd{Days: 7},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}
}

func TestMealEditAndRemove(t *testing.T) {
	ctx := clitest.Initialized(t)
	m := addMeal(t, ctx, MealAddCmd{Name: "Ramen", Type: "dinner", Category: "japanese", Calories: 600})

	calories := 550
	category := "healthy"
	if err := (&MealEditCmd{ID: m.ID, Calories: &calories, Category: &category}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	got, err := a.Meals.Get(ctx.Context(), m.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Calories != 550 || got.Category != models.MealHealthy {
		t.Errorf("edited meal = %+v", got)
	}

	if err := (&MealRemoveCmd{ID: m.ID}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := (&MealEatCmd{ID: m.ID}).Run(ctx); err == nil {
		t.Error("expected eating a removed meal to fail")
	}
}
