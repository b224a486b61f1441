// Package tasks holds the task tracking commands.
package tasks

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

type TasksCmd struct {
	List      TaskListCmd      `cmd:"" default:"1" help:"List tasks by priority then deadline."`
	Add       TaskAddCmd       `cmd:"" help:"Add a task."`
	Edit      TaskEditCmd      `cmd:"" help:"Edit a task."`
	Done      TaskDoneCmd      `cmd:"" help:"Mark a task completed."`
	Undo      TaskUndoCmd      `cmd:"" help:"Reopen a completed task."`
	Remove    TaskRemoveCmd    `cmd:"" help:"Delete a task."`
	Clone     TaskCloneCmd     `cmd:"" help:"Create a fresh open copy of a task."`
	Due       TaskDueCmd       `cmd:"" help:"List open tasks due within the next days."`
	Overdue   TaskOverdueCmd   `cmd:"" help:"List open tasks past their deadline."`
	Reminders TaskRemindersCmd `cmd:"" help:"Show upcoming, overdue and daily reset reminders."`
	History   TaskHistoryCmd   `cmd:"" help:"List completed tasks, most recent first."`
	Stats     TaskStatsCmd     `cmd:"" help:"Show completion statistics."`
	Reset     TaskResetCmd     `cmd:"" help:"Reopen every completed daily task."`
}

func printTasks(ctx *cli.Context, tasks []models.Task, empty string) {
	if len(tasks) == 0 {
		fmt.Println(empty)
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = cli.GainStyle.Render("[✓]")
		}
		rows = append(rows, []string{
			check,
			cli.Truncate(t.Title, 40),
			string(t.Type),
			fmt.Sprint(t.Priority),
			ctx.FormatDeadline(t.Deadline),
			fmt.Sprint(t.Reward),
			t.ID,
		})
	}
	cli.PrintTable([]string{"", "Task", "Type", "Priority", "Deadline", "Reward", "ID"}, rows)
}

type TaskListCmd struct {
	Type      string `help:"Only show daily or normal tasks."`
	Category  string `short:"c" help:"Only show this category."`
	Completed *bool  `help:"Filter by completion."`
	Limit     int    `short:"n" help:"Maximum number of tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	tasks, err := a.Tasks.List(ctx.Context(), models.TaskFilter{
		Type:      models.TaskType(c.Type),
		Category:  c.Category,
		Completed: c.Completed,
		Limit:     c.Limit,
	})
	if err != nil {
		return err
	}
	printTasks(ctx, tasks, "No tasks found.")
	return nil
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Free-form note."`
	Deadline    string `help:"Deadline (YYYY-MM-DD HH:MM or RFC 3339)."`
	Daily       bool   `help:"Make this a daily task that resets every day."`
	Category    string `short:"c" help:"Category."`
	Priority    int    `short:"p" default:"1" help:"Priority, higher first."`
	Fatigue     int    `help:"Expected fatigue cost."`
	Reward      int64  `help:"Points awarded on completion."`
	Duration    int    `help:"Estimated duration in minutes."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	typ := models.TaskTypeNormal
	if c.Daily {
		typ = models.TaskTypeDaily
	}
	task, err := a.Tasks.Create(ctx.Context(), models.Task{
		Title:       c.Title,
		Description: c.Description,
		Deadline:    deadline,
		Type:        typ,
		Category:    c.Category,
		Priority:    c.Priority,
		Fatigue:     c.Fatigue,
		Reward:      c.Reward,
		DurationMin: c.Duration,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added task %q\n", task.Title)
	fmt.Printf("  ID: %s\n", task.ID)
	return nil
}

type TaskEditCmd struct {
	ID            string  `arg:"" help:"Task ID."`
	Title         *string `help:"New title."`
	Description   *string `help:"New description."`
	Deadline      string  `help:"New deadline."`
	ClearDeadline bool    `help:"Remove the deadline."`
	Type          *string `help:"daily or normal."`
	Category      *string `help:"New category."`
	Priority      *int    `help:"New priority."`
	Fatigue       *int    `help:"New fatigue cost."`
	Reward        *int64  `help:"New reward."`
	Duration      *int    `help:"New duration in minutes."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	upd := models.TaskUpdate{
		Title:       c.Title,
		Description: c.Description,
		Deadline:    deadline,
		ClearDue:    c.ClearDeadline,
		Category:    c.Category,
		Priority:    c.Priority,
		Fatigue:     c.Fatigue,
		Reward:      c.Reward,
		DurationMin: c.Duration,
	}
	if c.Type != nil {
		typ := models.TaskType(*c.Type)
		upd.Type = &typ
	}
	task, err := a.Tasks.Update(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated task %q\n", task.Title)
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.Tasks.Complete(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Completed %q\n", task.Title)
	if task.Reward > 0 {
		fmt.Printf("  Record the reward with: lifequest points record %d -c task_completion\n", task.Reward)
	}
	return nil
}

type TaskUndoCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskUndoCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.Tasks.Undo(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Reopened %q\n", task.Title)
	return nil
}

type TaskRemoveCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Tasks.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted task %s\n", c.ID)
	return nil
}

type TaskCloneCmd struct {
	ID string `arg:"" help:"ID of the task to copy."`
}

func (c *TaskCloneCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.Tasks.CloneFromHistory(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Cloned %q\n", task.Title)
	fmt.Printf("  ID: %s\n", task.ID)
	return nil
}

type TaskDueCmd struct {
	Days int `default:"1" help:"Look-ahead window in days."`
}

func (c *TaskDueCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	tasks, err := a.Tasks.DueWithin(ctx.Context(), c.Days)
	if err != nil {
		return err
	}
	printTasks(ctx, tasks, fmt.Sprintf("Nothing due in the next %d day(s).", c.Days))
	return nil
}

type TaskOverdueCmd struct{}

func (c *TaskOverdueCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	tasks, err := a.Tasks.Overdue(ctx.Context())
	if err != nil {
		return err
	}
	printTasks(ctx, tasks, "Nothing overdue.")
	return nil
}

type TaskRemindersCmd struct {
	Hours int `default:"24" help:"Look-ahead window for upcoming reminders."`
}

func (c *TaskRemindersCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	upcoming, err := a.Tasks.Upcoming(ctx.Context(), c.Hours)
	if err != nil {
		return err
	}
	overdue, err := a.Tasks.OverdueReminders(ctx.Context())
	if err != nil {
		return err
	}
	daily, err := a.Tasks.DailyResetReminders(ctx.Context())
	if err != nil {
		return err
	}

	all := append(append(upcoming, overdue...), daily...)
	if len(all) == 0 {
		fmt.Println("No reminders.")
		return nil
	}
	for _, r := range all {
		when := ""
		if r.RemindAt != nil {
			when = " at " + ctx.FormatTime(*r.RemindAt)
		}
		style := cli.MutedStyle
		if r.Kind == models.ReminderOverdue {
			style = cli.LossStyle
		}
		fmt.Printf("%s %s%s\n", style.Render(fmt.Sprintf("[%s]", r.Kind)), r.Message, when)
	}
	return nil
}

type TaskHistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of tasks."`
}

func (c *TaskHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	tasks, err := a.Tasks.History(ctx.Context(), c.Limit)
	if err != nil {
		return err
	}
	printTasks(ctx, tasks, "No completed tasks yet.")
	return nil
}

type TaskStatsCmd struct{}

func (c *TaskStatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Tasks.Statistics(ctx.Context())
	if err != nil {
		return err
	}
	cli.Header("Task statistics")
	fmt.Printf("Total:      %d\n", s.Total)
	fmt.Printf("Completed:  %d\n", s.Completed)
	fmt.Printf("Pending:    %d\n", s.Pending)
	fmt.Printf("Overdue:    %d\n", s.Overdue)
	fmt.Printf("Completion: %.1f%%\n", s.CompletionRate)
	return nil
}

type TaskResetCmd struct{}

func (c *TaskResetCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	n, err := a.Tasks.ResetDaily(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Reopened %d daily task(s)\n", n)
	return nil
}
