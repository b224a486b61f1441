// Package meals holds the meal catalog and meal log commands.
package meals

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

type MealsCmd struct {
	List      MealListCmd      `cmd:"" default:"1" help:"List known meals."`
	Add       MealAddCmd       `cmd:"" help:"Add a meal."`
	Edit      MealEditCmd      `cmd:"" help:"Edit a meal."`
	Remove    MealRemoveCmd    `cmd:"" help:"Delete a meal."`
	Recommend MealRecommendCmd `cmd:"" help:"Suggest meals for your current energy and fatigue."`
	Eat       MealEatCmd       `cmd:"" help:"Log that you ate a meal."`
	History   MealHistoryCmd   `cmd:"" help:"Show what you ate recently."`
	Stats     MealStatsCmd     `cmd:"" help:"Show meal statistics."`
}

type MealListCmd struct {
	Type        string `short:"t" help:"breakfast, lunch, dinner or snack."`
	Category    string `short:"c" help:"Only this category."`
	Recommended *bool  `help:"Filter by the recommended flag."`
}

func (c *MealListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	meals, err := a.Meals.List(ctx.Context(), models.MealFilter{
		Type:          models.MealType(c.Type),
		Category:      models.MealCategory(c.Category),
		IsRecommended: c.Recommended,
	})
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		fmt.Println("No meals yet.")
		return nil
	}
	rows := make([][]string, 0, len(meals))
	for _, m := range meals {
		star := ""
		if m.IsRecommended {
			star = cli.GainStyle.Render("★")
		}
		rows = append(rows, []string{
			star,
			cli.Truncate(m.Name, 28),
			string(m.Type),
			string(m.Category),
			fmt.Sprint(m.Calories),
			fmt.Sprintf("+%d", m.EnergyBoost),
			fmt.Sprintf("-%d", m.FatigueReduction),
			m.ID,
		})
	}
	cli.PrintTable([]string{"", "Meal", "Type", "Category", "kcal", "Energy", "Fatigue", "ID"}, rows)
	return nil
}

type MealAddCmd struct {
	Name             string  `arg:"" help:"Meal name."`
	Type             string  `arg:"" help:"breakfast, lunch, dinner or snack."`
	Category         string  `short:"c" default:"other" help:"japanese, western, chinese, italian, fast_food, healthy or other."`
	Calories         int     `help:"Calories."`
	Protein          float64 `help:"Protein in grams."`
	Carbs            float64 `help:"Carbohydrates in grams."`
	Fat              float64 `help:"Fat in grams."`
	EnergyBoost      int     `help:"Energy gained from eating it."`
	FatigueReduction int     `help:"Fatigue removed by eating it."`
	Recommended      bool    `help:"Mark as a recommended meal."`
	Description      string  `short:"d" help:"Free-form note."`
}

func (c *MealAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	m, err := a.Meals.Create(ctx.Context(), models.Meal{
		Name:             c.Name,
		Description:      c.Description,
		Type:             models.MealType(c.Type),
		Category:         models.MealCategory(c.Category),
		Calories:         c.Calories,
		Protein:          c.Protein,
		Carbs:            c.Carbs,
		Fat:              c.Fat,
		EnergyBoost:      c.EnergyBoost,
		FatigueReduction: c.FatigueReduction,
		IsRecommended:    c.Recommended,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %s %q\n", m.Type, m.Name)
	fmt.Printf("  ID: %s\n", m.ID)
	return nil
}

type MealEditCmd struct {
	ID               string   `arg:"" help:"Meal ID."`
	Name             *string  `help:"New name."`
	Type             *string  `help:"New meal type."`
	Category         *string  `help:"New category."`
	Calories         *int     `help:"New calories."`
	Protein          *float64 `help:"New protein."`
	Carbs            *float64 `help:"New carbohydrates."`
	Fat              *float64 `help:"New fat."`
	EnergyBoost      *int     `help:"New energy boost."`
	FatigueReduction *int     `help:"New fatigue reduction."`
	Recommended      *bool    `help:"Set the recommended flag."`
	Description      *string  `help:"New description."`
}

func (c *MealEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	upd := models.MealUpdate{
		Name:             c.Name,
		Description:      c.Description,
		Calories:         c.Calories,
		Protein:          c.Protein,
		Carbs:            c.Carbs,
		Fat:              c.Fat,
		EnergyBoost:      c.EnergyBoost,
		FatigueReduction: c.FatigueReduction,
		IsRecommended:    c.Recommended,
	}
	if c.Type != nil {
		t := models.MealType(*c.Type)
		upd.Type = &t
	}
	if c.Category != nil {
		cat := models.MealCategory(*c.Category)
		upd.Category = &cat
	}
	m, err := a.Meals.Update(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q\n", m.Name)
	return nil
}

type MealRemoveCmd struct {
	ID string `arg:"" help:"Meal ID."`
}

func (c *MealRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Meals.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted meal %s\n", c.ID)
	return nil
}

type MealRecommendCmd struct {
	Energy  int    `short:"e" default:"50" help:"Current energy level 0-100."`
	Fatigue int    `short:"f" default:"50" help:"Current fatigue level 0-100."`
	Type    string `short:"t" help:"Only suggest this meal type."`
}

func (c *MealRecommendCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	recs, err := a.Meals.Recommend(ctx.Context(), c.Energy, c.Fatigue, models.MealType(c.Type))
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No meals to recommend. Add some with: lifequest meals add")
		return nil
	}
	cli.Header("Suggested meals")
	for i, r := range recs {
		fmt.Printf("%d. %s %s\n", i+1, r.Meal.Name, cli.MutedStyle.Render(fmt.Sprintf("(%s, %.1f)", r.Meal.Type, r.Score)))
		fmt.Printf("   %s\n", r.Reason)
	}
	return nil
}

type MealEatCmd struct {
	ID string `arg:"" help:"Meal ID."`
	At string `help:"When you ate it. Defaults to now."`
}

func (c *MealEatCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	at, err := ctx.ParseTime(c.At)
	if err != nil {
		return fmt.Errorf("invalid --at: %w", err)
	}
	entry, err := a.Meals.Consume(ctx.Context(), c.ID, at)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Logged %q at %s (%d kcal)\n", entry.MealName, ctx.FormatTime(entry.ConsumedAt), entry.Calories)
	return nil
}

type MealHistoryCmd struct {
	Days int `default:"7" help:"Look-back window in days."`
}

func (c *MealHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	entries, err := a.Meals.History(ctx.Context(), c.Days)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No meals logged in the last %d days.\n", c.Days)
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			ctx.FormatTime(e.ConsumedAt),
			cli.Truncate(e.MealName, 28),
			string(e.MealType),
			string(e.Category),
			fmt.Sprint(e.Calories),
		})
	}
	cli.PrintTable([]string{"Eaten", "Meal", "Type", "Category", "kcal"}, rows)
	return nil
}

type MealStatsCmd struct {
	Days int `default:"7" help:"Look-back window in days."`
}

func (c *MealStatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Meals.Statistics(ctx.Context(), c.Days)
	if err != nil {
		return err
	}
	cli.Header("Meals over the last %d days", s.Days)
	fmt.Printf("Meals:            %d\n", s.TotalMeals)
	fmt.Printf("Calories:         %d (%.0f per meal)\n", s.TotalCalories, s.AvgCalories)
	fmt.Printf("Energy boost:     %d\n", s.TotalEnergyBoost)
	fmt.Printf("Fatigue relieved: %d\n", s.TotalFatigueReduction)
	if s.MostConsumedCategory != "" {
		fmt.Printf("Top category:     %s\n", s.MostConsumedCategory)
	}
	if s.MostConsumedType != "" {
		fmt.Printf("Top meal type:    %s\n", s.MostConsumedType)
	}
	return nil
}
