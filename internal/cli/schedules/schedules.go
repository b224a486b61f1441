// Package schedules holds the calendar commands and the free slot finder.
package schedules

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/scheduler"
)

type SchedulesCmd struct {
	Today     ScheduleTodayCmd     `cmd:"" default:"1" help:"Show today's schedules."`
	Week      ScheduleWeekCmd      `cmd:"" help:"Show the schedules of a week."`
	List      ScheduleListCmd      `cmd:"" help:"List schedules in a time range."`
	Add       ScheduleAddCmd       `cmd:"" help:"Add a schedule."`
	Edit      ScheduleEditCmd      `cmd:"" help:"Edit a schedule."`
	Done      ScheduleDoneCmd      `cmd:"" help:"Mark a schedule completed."`
	Undo      ScheduleUndoCmd      `cmd:"" help:"Reopen a completed schedule."`
	Remove    ScheduleRemoveCmd    `cmd:"" help:"Delete a schedule."`
	Free      ScheduleFreeCmd      `cmd:"" help:"Find free slots in a day, best first."`
	Conflicts ScheduleConflictsCmd `cmd:"" help:"Report overlapping fixed schedules."`
}

func printSchedules(ctx *cli.Context, schedules []models.Schedule, empty string) {
	if len(schedules) == 0 {
		fmt.Println(empty)
		return
	}
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		check := "[ ]"
		if s.Completed {
			check = cli.GainStyle.Render("[✓]")
		}
		rows = append(rows, []string{
			check,
			ctx.FormatTime(s.StartTime),
			ctx.FormatTime(s.EndTime)[len(constants.DateFormat)+1:],
			cli.Truncate(s.Title, 32),
			string(s.Type),
			fmt.Sprint(s.Fatigue),
			s.ID,
		})
	}
	cli.PrintTable([]string{"", "Start", "End", "Title", "Type", "Fatigue", "ID"}, rows)
}

type ScheduleTodayCmd struct{}

func (c *ScheduleTodayCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	schedules, err := a.Schedules.Today(ctx.Context())
	if err != nil {
		return err
	}
	printSchedules(ctx, schedules, "Nothing scheduled today.")
	return nil
}

type ScheduleWeekCmd struct {
	Start string `help:"Any day of the week to show. Defaults to this week."`
}

func (c *ScheduleWeekCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	start, err := ctx.ParseTime(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	schedules, err := a.Schedules.Week(ctx.Context(), start)
	if err != nil {
		return err
	}
	printSchedules(ctx, schedules, "Nothing scheduled this week.")
	return nil
}

type ScheduleListCmd struct {
	From string `help:"Only schedules ending after this time."`
	To   string `help:"Only schedules starting before this time."`
	Type string `help:"fixed or flexible."`
}

func (c *ScheduleListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	from, err := ctx.ParseTime(c.From)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := ctx.ParseTime(c.To)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	schedules, err := a.Schedules.List(ctx.Context(), from, to, models.ScheduleType(c.Type))
	if err != nil {
		return err
	}
	printSchedules(ctx, schedules, "No schedules found.")
	return nil
}

type ScheduleAddCmd struct {
	Title       string `arg:"" help:"Schedule title."`
	Start       string `arg:"" help:"Start time (YYYY-MM-DD HH:MM)."`
	End         string `arg:"" help:"End time (YYYY-MM-DD HH:MM)."`
	Fixed       bool   `help:"Fixed appointment that cannot move."`
	Priority    int    `short:"p" default:"1" help:"Priority."`
	Fatigue     int    `help:"Fatigue cost."`
	Category    string `short:"c" help:"Category."`
	Location    string `short:"l" help:"Where it happens."`
	Description string `short:"d" help:"Free-form note."`
}

func (c *ScheduleAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	start, err := ctx.ParseTime(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := ctx.ParseTime(c.End)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	if start == nil || end == nil {
		return fmt.Errorf("start and end are required")
	}
	typ := models.ScheduleFlexible
	if c.Fixed {
		typ = models.ScheduleFixed
	}
	s, err := a.Schedules.Create(ctx.Context(), models.Schedule{
		Title:       c.Title,
		Description: c.Description,
		StartTime:   *start,
		EndTime:     *end,
		Type:        typ,
		Priority:    c.Priority,
		Fatigue:     c.Fatigue,
		Category:    c.Category,
		Location:    c.Location,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %q %s – %s\n", s.Title, ctx.FormatTime(s.StartTime), ctx.FormatTime(s.EndTime))
	fmt.Printf("  ID: %s\n", s.ID)
	return nil
}

type ScheduleEditCmd struct {
	ID          string  `arg:"" help:"Schedule ID."`
	Title       *string `help:"New title."`
	Start       string  `help:"New start time."`
	End         string  `help:"New end time."`
	Type        *string `help:"fixed or flexible."`
	Priority    *int    `help:"New priority."`
	Fatigue     *int    `help:"New fatigue cost."`
	Category    *string `help:"New category."`
	Location    *string `help:"New location."`
	Description *string `help:"New description."`
}

func (c *ScheduleEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	start, err := ctx.ParseTime(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := ctx.ParseTime(c.End)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	upd := models.ScheduleUpdate{
		Title:       c.Title,
		Description: c.Description,
		StartTime:   start,
		EndTime:     end,
		Priority:    c.Priority,
		Fatigue:     c.Fatigue,
		Category:    c.Category,
		Location:    c.Location,
	}
	if c.Type != nil {
		typ := models.ScheduleType(*c.Type)
		upd.Type = &typ
	}
	s, err := a.Schedules.Update(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q\n", s.Title)
	return nil
}

type ScheduleDoneCmd struct {
	ID string `arg:"" help:"Schedule ID."`
}

func (c *ScheduleDoneCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Schedules.Complete(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Completed %q\n", s.Title)
	return nil
}

type ScheduleUndoCmd struct {
	ID string `arg:"" help:"Schedule ID."`
}

func (c *ScheduleUndoCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Schedules.Undo(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Reopened %q\n", s.Title)
	return nil
}

type ScheduleRemoveCmd struct {
	ID string `arg:"" help:"Schedule ID."`
}

func (c *ScheduleRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Schedules.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted schedule %s\n", c.ID)
	return nil
}

type ScheduleFreeCmd struct {
	Date        string `help:"Day to search (YYYY-MM-DD). Defaults to today."`
	MinDuration *int   `help:"Shortest slot to report, in minutes."`
	MaxFatigue  *int   `help:"Fatigue budget used to weight long slots (0-10)."`
}

func (c *ScheduleFreeCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	slots, err := a.Schedules.FreeSlots(ctx.Context(), scheduler.SlotQuery{
		Date:        c.Date,
		MinDuration: c.MinDuration,
		MaxFatigue:  c.MaxFatigue,
	})
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No free slots.")
		return nil
	}
	rows := make([][]string, 0, len(slots))
	for i, s := range slots {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			ctx.FormatTime(s.Start),
			ctx.FormatTime(s.End)[len(constants.DateFormat)+1:],
			fmt.Sprintf("%d min", s.DurationMin),
			fmt.Sprintf("%.1f", s.PriorityScore),
		})
	}
	cli.PrintTable([]string{"#", "Start", "End", "Length", "Score"}, rows)
	return nil
}

type ScheduleConflictsCmd struct {
	Date string `help:"Day to check (YYYY-MM-DD). Defaults to today."`
}

func (c *ScheduleConflictsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	result, err := a.Schedules.Conflicts(ctx.Context(), c.Date)
	if err != nil {
		return err
	}
	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
	}
	return nil
}
