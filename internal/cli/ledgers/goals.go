package ledgers

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

type GoalsCmd struct {
	List   GoalListCmd   `cmd:"" default:"1" help:"List goals."`
	Add    GoalAddCmd    `cmd:"" help:"Add a savings goal."`
	Update GoalUpdateCmd `cmd:"" help:"Update a goal's progress or details."`
	Remove GoalRemoveCmd `cmd:"" help:"Delete a goal."`
}

type GoalListCmd struct {
	Currency  string `help:"Only show goals in this currency (points or coins)."`
	Completed *bool  `help:"Filter by completion."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	goals, err := a.Goals.List(ctx.Context(), models.Currency(c.Currency), c.Completed)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals yet.")
		return nil
	}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		status := fmt.Sprintf("%.0f%%", g.Progress())
		if g.Completed {
			status = cli.GainStyle.Render("done")
		}
		rows = append(rows, []string{
			g.Title,
			string(g.Currency),
			fmt.Sprintf("%d/%d", g.CurrentAmount, g.TargetAmount),
			status,
			ctx.FormatDeadline(g.Deadline),
			g.ID,
		})
	}
	cli.PrintTable([]string{"Goal", "Currency", "Progress", "Status", "Deadline", "ID"}, rows)
	return nil
}

type GoalAddCmd struct {
	Title       string `arg:"" help:"Goal title."`
	Target      int64  `arg:"" help:"Target amount."`
	Currency    string `enum:"points,coins" default:"points" help:"Currency the goal is measured in."`
	Description string `short:"d" help:"Free-form note."`
	Deadline    string `help:"Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	g, err := a.Goals.Create(ctx.Context(), models.Goal{
		Currency:     models.Currency(c.Currency),
		Title:        c.Title,
		Description:  c.Description,
		TargetAmount: c.Target,
		Deadline:     deadline,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added goal %q (%d %s)\n", g.Title, g.TargetAmount, g.Currency)
	fmt.Printf("  ID: %s\n", g.ID)
	return nil
}

type GoalUpdateCmd struct {
	ID        string  `arg:"" help:"Goal ID."`
	Title     *string `help:"New title."`
	Target    *int64  `help:"New target amount."`
	Current   *int64  `help:"Amount saved so far."`
	Deadline  string  `help:"New deadline."`
	Completed *bool   `help:"Mark the goal complete or reopen it."`
}

func (c *GoalUpdateCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	g, err := a.Goals.Update(ctx.Context(), c.ID, models.GoalUpdate{
		Title:         c.Title,
		TargetAmount:  c.Target,
		CurrentAmount: c.Current,
		Deadline:      deadline,
		Completed:     c.Completed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated goal %q: %d/%d (%.0f%%)\n", g.Title, g.CurrentAmount, g.TargetAmount, g.Progress())
	return nil
}

type GoalRemoveCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Goals.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted goal %s\n", c.ID)
	return nil
}
