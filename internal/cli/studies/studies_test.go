package studies

import (
	"testing"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/models"
)

func items(t *testing.T, ctx *cli.Context) []models.StudyItem {
	t.Helper()
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	out, err := a.Study.List(ctx.Context(), models.StudyFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	return out
}

func TestStudyAddAndLog(t *testing.T) {
	ctx := clitest.Initialized(t)

	add := &StudyAddCmd{Title: "Linear algebra", Subject: "math", Type: "exam", Hours: 4, Priority: 5, Difficulty: 3, Deadline: "2024-05-10"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	item := items(t, ctx)[0]

	if err := (&StudyLogCmd{ID: item.ID, Hours: 1}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if got := items(t, ctx)[0]; got.CompletedHours != 1 || got.Progress != 25 {
		t.Errorf("after 1h: hours %.1f progress %d, want 1.0 and 25", got.CompletedHours, got.Progress)
	}

	if err := (&StudyLogCmd{ID: item.ID, Hours: 3}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if got := items(t, ctx)[0]; got.Progress != 100 {
		t.Errorf("progress = %d, want 100", got.Progress)
	}
}

func TestStudyAddValidates(t *testing.T) {
	ctx := clitest.Initialized(t)
	tests := []struct {
		name string
		cmd  StudyAddCmd
	}{
		{"unknown subject", StudyAddCmd{Title: "x", Subject: "alchemy", Type: "self_study", Hours: 1, Priority: 1, Difficulty: 1}},
		{"priority out of range", StudyAddCmd{Title: "x", Subject: "math", Type: "self_study", Hours: 1, Priority: 6, Difficulty: 1}},
		{"zero hours", StudyAddCmd{Title: "x", Subject: "math", Type: "self_study", Hours: 0, Priority: 1, Difficulty: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStudyReports(t *testing.T) {
	ctx := clitest.Initialized(t)
	for _, title := range []string{"Essay", "Reading"} {
		cmd := &StudyAddCmd{Title: title, Subject: "literature", Type: "assignment", Hours: 2, Priority: 2, Difficulty: 2}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	done := true
	if err := (&StudyEditCmd{ID: items(t, ctx)[0].ID, Completed: &done}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	reports := map[string]interface{ Run(*cli.Context) error }{
		"list":      &StudyListCmd{},
		"recommend": &StudyRecommendCmd{Limit: 5},
		"history":   &StudyHistoryCmd{Days: 30},
		"stats":     &StudyStatsCmd{},
	}
	for name, cmd := range reports {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"6", 6, false},
		{"mon", 0, false},
		{"Wednesday", 2, false},
		{"SUN", 6, false},
		{"7", 0, true},
		{"someday", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimetableCommands(t *testing.T) {
	ctx := clitest.Initialized(t)

	if err := (&TimetableAddCmd{Day: "tue", Start: "09:00", End: "10:30", Title: "Physics", Subject: "science"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&TimetableAddCmd{Day: "1", Start: "11:00", End: "10:00", Title: "Backwards", Subject: "other"}).Run(ctx); err == nil {
		t.Error("expected an inverted range to be rejected")
	}

	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	day := 1
	entries, err := a.Study.ListTimetable(ctx.Context(), &day)
	if err != nil || len(entries) != 1 {
		t.Fatalf("tuesday entries = %v, %v; want one", entries, err)
	}

	room := "B12"
	if err := (&TimetableEditCmd{ID: entries[0].ID, Day: "thu", Room: &room}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got, err := a.Study.GetTimetableEntry(ctx.Context(), entries[0].ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.DayOfWeek != 3 || got.Room != room {
		t.Errorf("edited entry = %+v", got)
	}

	for _, day := range []string{"", "today", "thu"} {
		if err := (&TimetableShowCmd{Day: day}).Run(ctx); err != nil {
			t.Errorf("show %q failed: %v", day, err)
		}
	}
	if err := (&TimetableRemoveCmd{ID: got.ID}).Run(ctx); err != nil {
		t.Errorf("remove failed: %v", err)
	}
}
