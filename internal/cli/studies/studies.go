// Package studies holds the study tracking and timetable commands.
package studies

import (
	"fmt"
	"sort"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

type StudyCmd struct {
	List      StudyListCmd      `cmd:"" default:"1" help:"List study items."`
	Add       StudyAddCmd       `cmd:"" help:"Add a study item."`
	Log       StudyLogCmd       `cmd:"" help:"Log hours spent on an item."`
	Edit      StudyEditCmd      `cmd:"" help:"Edit a study item."`
	Remove    StudyRemoveCmd    `cmd:"" help:"Delete a study item."`
	Recommend StudyRecommendCmd `cmd:"" help:"Suggest what to study next."`
	History   StudyHistoryCmd   `cmd:"" help:"List items completed recently."`
	Stats     StudyStatsCmd     `cmd:"" help:"Show study statistics by subject."`
	Timetable TimetableCmd      `cmd:"" help:"Manage the weekly class timetable."`
}

func printItems(ctx *cli.Context, items []models.StudyItem, empty string) {
	if len(items) == 0 {
		fmt.Println(empty)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			cli.Truncate(it.Title, 32),
			string(it.Subject),
			string(it.StudyType),
			fmt.Sprintf("%d%%", it.Progress),
			fmt.Sprintf("%.1f/%.1fh", it.CompletedHours, it.EstimatedHours),
			ctx.FormatDeadline(it.Deadline),
			it.ID,
		})
	}
	cli.PrintTable([]string{"Title", "Subject", "Type", "Progress", "Hours", "Deadline", "ID"}, rows)
}

type StudyListCmd struct {
	Subject   string `short:"s" help:"Only this subject."`
	Type      string `help:"Only this study type."`
	Completed *bool  `help:"Filter by completion."`
	Limit     int    `short:"n" help:"Maximum number of items."`
}

func (c *StudyListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	items, err := a.Study.List(ctx.Context(), models.StudyFilter{
		Subject:   models.Subject(c.Subject),
		StudyType: models.StudyType(c.Type),
		Completed: c.Completed,
		Limit:     c.Limit,
	})
	if err != nil {
		return err
	}
	printItems(ctx, items, "No study items found.")
	return nil
}

type StudyAddCmd struct {
	Title       string  `arg:"" help:"Item title."`
	Subject     string  `short:"s" default:"other" help:"math, science, language, programming, literature, history or other."`
	Type        string  `default:"self_study" help:"lecture, assignment, exam or self_study."`
	Hours       float64 `default:"1" help:"Estimated hours."`
	Priority    int     `short:"p" default:"1" help:"Priority 1-5."`
	Difficulty  int     `default:"1" help:"Difficulty 1-5."`
	Deadline    string  `help:"Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)."`
	Description string  `short:"d" help:"Free-form note."`
}

func (c *StudyAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	item, err := a.Study.Create(ctx.Context(), models.StudyItem{
		Title:          c.Title,
		Description:    c.Description,
		Subject:        models.Subject(c.Subject),
		StudyType:      models.StudyType(c.Type),
		Priority:       c.Priority,
		Difficulty:     c.Difficulty,
		EstimatedHours: c.Hours,
		Deadline:       deadline,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %q (%s, %.1fh)\n", item.Title, item.Subject, item.EstimatedHours)
	fmt.Printf("  ID: %s\n", item.ID)
	return nil
}

type StudyLogCmd struct {
	ID    string  `arg:"" help:"Study item ID."`
	Hours float64 `arg:"" help:"Hours to add to the completed total."`
}

func (c *StudyLogCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	item, err := a.Study.Get(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	total := item.CompletedHours + c.Hours
	item, err = a.Study.Update(ctx.Context(), c.ID, models.StudyUpdate{CompletedHours: &total})
	if err != nil {
		return err
	}
	fmt.Printf("✓ %q is now %d%% done (%.1f/%.1fh)\n", item.Title, item.Progress, item.CompletedHours, item.EstimatedHours)
	return nil
}

type StudyEditCmd struct {
	ID             string   `arg:"" help:"Study item ID."`
	Title          *string  `help:"New title."`
	Subject        *string  `help:"New subject."`
	Type           *string  `help:"New study type."`
	Priority       *int     `help:"New priority."`
	Difficulty     *int     `help:"New difficulty."`
	EstimatedHours *float64 `help:"New estimate."`
	CompletedHours *float64 `help:"Set the completed hours."`
	Deadline       string   `help:"New deadline."`
	Completed      *bool    `help:"Mark completed or reopen."`
	Description    *string  `help:"New description."`
}

func (c *StudyEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	deadline, err := ctx.ParseTime(c.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	upd := models.StudyUpdate{
		Title:          c.Title,
		Description:    c.Description,
		Priority:       c.Priority,
		Difficulty:     c.Difficulty,
		EstimatedHours: c.EstimatedHours,
		CompletedHours: c.CompletedHours,
		Deadline:       deadline,
		Completed:      c.Completed,
	}
	if c.Subject != nil {
		s := models.Subject(*c.Subject)
		upd.Subject = &s
	}
	if c.Type != nil {
		t := models.StudyType(*c.Type)
		upd.StudyType = &t
	}
	item, err := a.Study.Update(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q (%d%%)\n", item.Title, item.Progress)
	return nil
}

type StudyRemoveCmd struct {
	ID string `arg:"" help:"Study item ID."`
}

func (c *StudyRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Study.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted study item %s\n", c.ID)
	return nil
}

type StudyRecommendCmd struct {
	Limit int `short:"n" default:"5" help:"Number of suggestions."`
}

func (c *StudyRecommendCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	recs, err := a.Study.Recommend(ctx.Context(), c.Limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("Nothing left to study. 🎉")
		return nil
	}
	cli.Header("Study next")
	for i, r := range recs {
		fmt.Printf("%d. %s %s\n", i+1, r.Item.Title, cli.MutedStyle.Render(fmt.Sprintf("(%.1f)", r.Score)))
		fmt.Printf("   %s\n", r.Reason)
	}
	return nil
}

type StudyHistoryCmd struct {
	Days int `default:"30" help:"Look-back window in days."`
}

func (c *StudyHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	items, err := a.Study.History(ctx.Context(), c.Days)
	if err != nil {
		return err
	}
	printItems(ctx, items, fmt.Sprintf("Nothing completed in the last %d days.", c.Days))
	return nil
}

type StudyStatsCmd struct{}

func (c *StudyStatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Study.Statistics(ctx.Context())
	if err != nil {
		return err
	}
	cli.Header("Study statistics")
	fmt.Printf("Items: %d, completed %d (%.1f%%), %.1f hours studied\n\n", s.Total, s.Completed, s.CompletionRate, s.TotalHours)

	subjects := make([]string, 0, len(s.BySubject))
	for sub := range s.BySubject {
		subjects = append(subjects, string(sub))
	}
	sort.Strings(subjects)
	rows := make([][]string, 0, len(subjects))
	for _, sub := range subjects {
		st := s.BySubject[models.Subject(sub)]
		rows = append(rows, []string{sub, fmt.Sprint(st.Total), fmt.Sprint(st.Completed), fmt.Sprintf("%.1f", st.Hours)})
	}
	cli.PrintTable([]string{"Subject", "Items", "Completed", "Hours"}, rows)
	return nil
}

type TimetableCmd struct {
	Show   TimetableShowCmd   `cmd:"" default:"1" help:"Show the timetable."`
	Add    TimetableAddCmd    `cmd:"" help:"Add a class."`
	Edit   TimetableEditCmd   `cmd:"" help:"Edit a class."`
	Remove TimetableRemoveCmd `cmd:"" help:"Delete a class."`
}

// weekday names indexed by day_of_week, Monday first
var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func dayName(d int) string {
	if d >= 0 && d < len(weekdays) {
		return weekdays[d]
	}
	return fmt.Sprint(d)
}

// parseDay accepts 0-6 with Monday as 0, or a weekday name.
func parseDay(s string) (int, error) {
	for i, name := range weekdays {
		if len(s) >= 3 && equalFoldPrefix(s, name) {
			return i, nil
		}
	}
	var d int
	if _, err := fmt.Sscanf(s, "%d", &d); err != nil || d < 0 || d > 6 {
		return 0, fmt.Errorf("invalid day %q, use 0-6 (Monday=0) or a weekday name", s)
	}
	return d, nil
}

func equalFoldPrefix(s, name string) bool {
	for i := 0; i < len(name); i++ {
		a, b := s[i], name[i]
		if a|0x20 != b|0x20 {
			return false
		}
	}
	return true
}

type TimetableShowCmd struct {
	Day string `help:"Only this day (0-6, Monday=0, or a weekday name). 'today' for today."`
}

func (c *TimetableShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	var day *int
	switch c.Day {
	case "":
	case "today":
		d := (int(ctx.Clock().Weekday()) + 6) % 7
		day = &d
	default:
		d, err := parseDay(c.Day)
		if err != nil {
			return err
		}
		day = &d
	}

	entries, err := a.Study.ListTimetable(ctx.Context(), day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No classes.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{dayName(e.DayOfWeek), e.StartTime + "–" + e.EndTime, e.Title, e.Subject, e.Room, e.Teacher, e.ID})
	}
	cli.PrintTable([]string{"Day", "Time", "Class", "Subject", "Room", "Teacher", "ID"}, rows)
	return nil
}

type TimetableAddCmd struct {
	Day     string `arg:"" help:"Day of week (0-6, Monday=0, or a weekday name)."`
	Start   string `arg:"" help:"Start time HH:MM."`
	End     string `arg:"" help:"End time HH:MM."`
	Title   string `arg:"" help:"Class title."`
	Subject string `short:"s" default:"other" help:"Subject."`
	Room    string `help:"Room."`
	Teacher string `help:"Teacher."`
}

func (c *TimetableAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	e, err := a.Study.AddTimetableEntry(ctx.Context(), models.TimetableEntry{
		DayOfWeek: day,
		StartTime: c.Start,
		EndTime:   c.End,
		Subject:   c.Subject,
		Title:     c.Title,
		Room:      c.Room,
		Teacher:   c.Teacher,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %q on %s %s–%s\n", e.Title, dayName(e.DayOfWeek), e.StartTime, e.EndTime)
	fmt.Printf("  ID: %s\n", e.ID)
	return nil
}

type TimetableEditCmd struct {
	ID      string  `arg:"" help:"Timetable entry ID."`
	Day     string  `help:"New day."`
	Start   *string `help:"New start time HH:MM."`
	End     *string `help:"New end time HH:MM."`
	Title   *string `help:"New title."`
	Subject *string `help:"New subject."`
	Room    *string `help:"New room."`
	Teacher *string `help:"New teacher."`
}

func (c *TimetableEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	upd := models.TimetableUpdate{
		StartTime: c.Start,
		EndTime:   c.End,
		Title:     c.Title,
		Subject:   c.Subject,
		Room:      c.Room,
		Teacher:   c.Teacher,
	}
	if c.Day != "" {
		d, err := parseDay(c.Day)
		if err != nil {
			return err
		}
		upd.DayOfWeek = &d
	}
	e, err := a.Study.UpdateTimetableEntry(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q\n", e.Title)
	return nil
}

type TimetableRemoveCmd struct {
	ID string `arg:"" help:"Timetable entry ID."`
}

func (c *TimetableRemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Study.DeleteTimetableEntry(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted timetable entry %s\n", c.ID)
	return nil
}
