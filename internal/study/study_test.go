package study

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
)

var base = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTracker(t *testing.T) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: base}
	return New(storagetest.New(t), clock.now), clock
}

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, tr *Tracker, item models.StudyItem) models.StudyItem {
	t.Helper()
	created, err := tr.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", item.Title, err)
	}
	return created
}

func mustUpdate(t *testing.T, tr *Tracker, id string, upd models.StudyUpdate) models.StudyItem {
	t.Helper()
	item, err := tr.Update(context.Background(), id, upd)
	if err != nil {
		t.Fatalf("Update(%s) error = %v", id, err)
	}
	return item
}

func TestProgress(t *testing.T) {
	tests := []struct {
		completed, estimated float64
		want                 int
	}{
		{0, 10, 0},
		{2.5, 10, 25},
		{1, 3, 33},
		{2, 3, 67},
		{12, 10, 100},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.completed, tt.estimated); got != tt.want {
			t.Errorf("Progress(%v, %v) = %d, want %d", tt.completed, tt.estimated, got, tt.want)
		}
	}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	item := mustCreate(t, tr, models.StudyItem{Title: "Linear algebra", Subject: models.SubjectMath, CompletedHours: 0.5})
	if item.StudyType != models.StudySelf {
		t.Errorf("study type = %q, want %q", item.StudyType, models.StudySelf)
	}
	if item.Priority != 1 || item.Difficulty != 1 || item.EstimatedHours != 1.0 {
		t.Errorf("defaults = priority %d, difficulty %d, estimated %.1f", item.Priority, item.Difficulty, item.EstimatedHours)
	}
	if item.Progress != 50 {
		t.Errorf("progress = %d, want 50", item.Progress)
	}

	tests := []struct {
		name string
		item models.StudyItem
	}{
		{name: "empty title", item: models.StudyItem{Title: "", Subject: models.SubjectMath}},
		{name: "unknown subject", item: models.StudyItem{Title: "x", Subject: "alchemy"}},
		{name: "unknown study type", item: models.StudyItem{Title: "x", Subject: models.SubjectMath, StudyType: "nap"}},
		{name: "priority too high", item: models.StudyItem{Title: "x", Subject: models.SubjectMath, Priority: 6}},
		{name: "negative difficulty", item: models.StudyItem{Title: "x", Subject: models.SubjectMath, Difficulty: -1}},
		{name: "negative estimate", item: models.StudyItem{Title: "x", Subject: models.SubjectMath, EstimatedHours: -2}},
		{name: "negative completed hours", item: models.StudyItem{Title: "x", Subject: models.SubjectMath, CompletedHours: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Create(ctx, tt.item); !apperrors.IsInvalidInput(err) {
				t.Errorf("Create(%+v) error = %v, want invalid input", tt.item, err)
			}
		})
	}
}

func TestUpdateProgressInvariant(t *testing.T) {
	tr, clock := newTracker(t)
	ctx := context.Background()

	item := mustCreate(t, tr, models.StudyItem{Title: "Compilers", Subject: models.SubjectProgramming, EstimatedHours: 8})
	if item.Progress != 0 {
		t.Fatalf("initial progress = %d, want 0", item.Progress)
	}

	steps := []struct {
		name string
		upd  models.StudyUpdate
		want int
	}{
		{name: "3 of 8 rounds", upd: models.StudyUpdate{CompletedHours: ptr(3.0)}, want: 38},
		{name: "smaller estimate", upd: models.StudyUpdate{EstimatedHours: ptr(4.0)}, want: 75},
		{name: "caps at 100", upd: models.StudyUpdate{CompletedHours: ptr(9.0)}, want: 100},
		{name: "drops again", upd: models.StudyUpdate{CompletedHours: ptr(1.0)}, want: 25},
	}
	for _, step := range steps {
		item = mustUpdate(t, tr, item.ID, step.upd)
		if item.Progress != step.want {
			t.Errorf("%s: progress = %d, want %d", step.name, item.Progress, step.want)
		}
	}

	clock.advance(time.Hour)
	item = mustUpdate(t, tr, item.ID, models.StudyUpdate{Completed: ptr(true)})
	if item.Progress != 100 {
		t.Errorf("completing: progress = %d, want 100", item.Progress)
	}
	if item.CompletedAt == nil || !item.CompletedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("completed_at = %v, want %v", item.CompletedAt, base.Add(time.Hour))
	}

	item = mustUpdate(t, tr, item.ID, models.StudyUpdate{Completed: ptr(false)})
	if item.Progress != 100 {
		t.Errorf("reopening: progress = %d, want 100 kept", item.Progress)
	}
	if item.CompletedAt != nil {
		t.Errorf("reopening: completed_at = %v, want nil", item.CompletedAt)
	}

	stored, err := tr.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Progress != 100 || stored.Completed {
		t.Errorf("stored = progress %d, completed %v", stored.Progress, stored.Completed)
	}

	if _, err := tr.Update(ctx, item.ID, models.StudyUpdate{EstimatedHours: ptr(0.0)}); !apperrors.IsInvalidInput(err) {
		t.Errorf("Update(zero estimate) error = %v, want invalid input", err)
	}
	if _, err := tr.Update(ctx, "missing", models.StudyUpdate{Title: ptr("x")}); !apperrors.IsNotFound(err) {
		t.Errorf("Update(missing) error = %v, want not found", err)
	}
}

func TestHistoryStatisticsAndRecommend(t *testing.T) {
	tr, clock := newTracker(t)
	ctx := context.Background()

	old := mustCreate(t, tr, models.StudyItem{Title: "Old essay", Subject: models.SubjectLiterature, CompletedHours: 2, EstimatedHours: 2})
	mustUpdate(t, tr, old.ID, models.StudyUpdate{Completed: ptr(true)})

	clock.advance(40 * 24 * time.Hour)
	recent := mustCreate(t, tr, models.StudyItem{Title: "Quiz prep", Subject: models.SubjectMath, CompletedHours: 1.5, EstimatedHours: 3})
	mustUpdate(t, tr, recent.ID, models.StudyUpdate{Completed: ptr(true)})

	clock.advance(time.Minute)
	deadline := clock.now().Add(48 * time.Hour)
	mustCreate(t, tr, models.StudyItem{Title: "Exam", Subject: models.SubjectMath, StudyType: models.StudyExam, Priority: 5, Difficulty: 4, EstimatedHours: 10, Deadline: &deadline})
	mustCreate(t, tr, models.StudyItem{Title: "Vocabulary", Subject: models.SubjectLanguage, EstimatedHours: 5, CompletedHours: 4})

	history, err := tr.History(ctx, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].Title != "Quiz prep" {
		t.Errorf("History(default) = %+v", history)
	}

	history, err = tr.History(ctx, 60)
	if err != nil {
		t.Fatalf("History(60) error = %v", err)
	}
	if len(history) != 2 || history[0].Title != "Quiz prep" {
		t.Errorf("History(60) = %+v", history)
	}

	stats, err := tr.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.Total != 4 || stats.Completed != 2 || stats.CompletionRate != 50.0 || stats.TotalHours != 7.5 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.BySubject) != 7 {
		t.Errorf("subjects reported = %d, want 7", len(stats.BySubject))
	}
	if got, want := stats.BySubject[models.SubjectMath], (models.SubjectStats{Total: 2, Completed: 1, Hours: 1.5}); got != want {
		t.Errorf("math stats = %+v, want %+v", got, want)
	}
	if got := stats.BySubject[models.SubjectHistory]; got != (models.SubjectStats{}) {
		t.Errorf("history stats = %+v, want zero", got)
	}

	recs, err := tr.Recommend(ctx, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 || recs[0].Item.Title != "Exam" || recs[1].Item.Title != "Vocabulary" {
		t.Errorf("Recommend() = %+v", recs)
	}

	list, err := tr.List(ctx, models.StudyFilter{Subject: models.SubjectMath})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Title != "Exam" {
		t.Errorf("List(math) should be newest first, got %+v", list)
	}

	if _, err := tr.List(ctx, models.StudyFilter{StudyType: "nap"}); !apperrors.IsInvalidInput(err) {
		t.Errorf("List(nap) error = %v, want invalid input", err)
	}
}

func TestTimetable(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	entries := []models.TimetableEntry{
		{DayOfWeek: 0, StartTime: "13:00", EndTime: "14:30", Subject: "math", Title: "Calculus"},
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30", Subject: "science", Title: "Physics", Room: "B12"},
		{DayOfWeek: 2, StartTime: "11:00", EndTime: "12:00", Subject: "history", Title: "Modern history"},
	}
	var ids []string
	for _, e := range entries {
		created, err := tr.AddTimetableEntry(ctx, e)
		if err != nil {
			t.Fatalf("AddTimetableEntry(%q) error = %v", e.Title, err)
		}
		ids = append(ids, created.ID)
	}

	monday, err := tr.ListTimetable(ctx, ptr(0))
	if err != nil {
		t.Fatalf("ListTimetable(0) error = %v", err)
	}
	if len(monday) != 2 || monday[0].Title != "Physics" || monday[1].Title != "Calculus" {
		t.Errorf("monday = %+v, want Physics then Calculus", monday)
	}

	week, err := tr.ListTimetable(ctx, nil)
	if err != nil {
		t.Fatalf("ListTimetable(nil) error = %v", err)
	}
	if len(week) != 3 {
		t.Errorf("week entries = %d, want 3", len(week))
	}

	if _, err := tr.ListTimetable(ctx, ptr(7)); !apperrors.IsInvalidInput(err) {
		t.Errorf("ListTimetable(7) error = %v, want invalid input", err)
	}

	moved, err := tr.UpdateTimetableEntry(ctx, ids[2], models.TimetableUpdate{DayOfWeek: ptr(4), Room: ptr("A1")})
	if err != nil {
		t.Fatalf("UpdateTimetableEntry() error = %v", err)
	}
	if moved.DayOfWeek != 4 || moved.Room != "A1" {
		t.Errorf("moved = %+v", moved)
	}

	if _, err := tr.UpdateTimetableEntry(ctx, ids[2], models.TimetableUpdate{EndTime: ptr("10:00")}); !apperrors.IsInvalidInput(err) {
		t.Errorf("UpdateTimetableEntry(end before start) error = %v, want invalid input", err)
	}

	invalid := []struct {
		name  string
		entry models.TimetableEntry
	}{
		{name: "bad start", entry: models.TimetableEntry{DayOfWeek: 0, StartTime: "9am", EndTime: "10:00", Subject: "math", Title: "x"}},
		{name: "bad day", entry: models.TimetableEntry{DayOfWeek: -1, StartTime: "09:00", EndTime: "10:00", Subject: "math", Title: "x"}},
		{name: "empty span", entry: models.TimetableEntry{DayOfWeek: 0, StartTime: "09:00", EndTime: "09:00", Subject: "math", Title: "x"}},
		{name: "unknown subject", entry: models.TimetableEntry{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00", Subject: "cooking", Title: "x"}},
		{name: "missing title", entry: models.TimetableEntry{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00", Subject: "math"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.AddTimetableEntry(ctx, tt.entry); !apperrors.IsInvalidInput(err) {
				t.Errorf("AddTimetableEntry(%+v) error = %v, want invalid input", tt.entry, err)
			}
		})
	}

	if err := tr.DeleteTimetableEntry(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteTimetableEntry() error = %v", err)
	}
	if _, err := tr.GetTimetableEntry(ctx, ids[0]); !apperrors.IsNotFound(err) {
		t.Errorf("GetTimetableEntry(deleted) error = %v, want not found", err)
	}
}
