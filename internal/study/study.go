// Package study tracks study items, their progress and the weekly timetable.
package study

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/recommend"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/utils"
	"github.com/julianstephens/lifequest/internal/validation"
)

var subjects = []models.Subject{
	models.SubjectMath, models.SubjectScience, models.SubjectLanguage, models.SubjectProgramming,
	models.SubjectLiterature, models.SubjectHistory, models.SubjectOther,
}

type Tracker struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// Progress is completed over estimated hours as a whole percentage, capped
// at 100.
func Progress(completedHours, estimatedHours float64) int {
	if estimatedHours <= 0 {
		return 0
	}
	return int(math.Min(100, math.Round(completedHours/estimatedHours*100)))
}

// Create stores item. Zero values default to a priority 1, difficulty 1,
// one hour self study.
func (t *Tracker) Create(ctx context.Context, item models.StudyItem) (models.StudyItem, error) {
	now := t.now()
	item.ID = uuid.NewString()
	item.Title = strings.TrimSpace(item.Title)
	if item.StudyType == "" {
		item.StudyType = models.StudySelf
	}
	if item.Priority == 0 {
		item.Priority = 1
	}
	if item.Difficulty == 0 {
		item.Difficulty = 1
	}
	if item.EstimatedHours == 0 {
		item.EstimatedHours = 1
	}
	if err := validateItem(item); err != nil {
		return models.StudyItem{}, err
	}

	item.Progress = Progress(item.CompletedHours, item.EstimatedHours)
	item.CompletedAt = nil
	if item.Completed {
		item.Progress = 100
		item.CompletedAt = &now
	}
	item.CreatedAt, item.UpdatedAt = now, now
	if err := t.store.AddStudyItem(ctx, item); err != nil {
		return models.StudyItem{}, err
	}
	logger.Debug("Created study item", "id", item.ID, "subject", item.Subject)
	return item, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (models.StudyItem, error) {
	return t.store.GetStudyItem(ctx, id)
}

// List returns items newest first.
func (t *Tracker) List(ctx context.Context, filter models.StudyFilter) ([]models.StudyItem, error) {
	if filter.Subject != "" && !filter.Subject.Valid() {
		return nil, apperrors.InvalidInputf("unknown subject %q", filter.Subject)
	}
	if filter.StudyType != "" && !filter.StudyType.Valid() {
		return nil, apperrors.InvalidInputf("unknown study type %q", filter.StudyType)
	}
	return t.store.ListStudyItems(ctx, filter)
}

// Update applies upd. Progress is recomputed when either hour count changes;
// completing forces 100 and reopening keeps the current percentage.
func (t *Tracker) Update(ctx context.Context, id string, upd models.StudyUpdate) (models.StudyItem, error) {
	item, err := t.store.GetStudyItem(ctx, id)
	if err != nil {
		return models.StudyItem{}, err
	}
	now := t.now()

	if upd.Title != nil {
		item.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Subject != nil {
		item.Subject = *upd.Subject
	}
	if upd.StudyType != nil {
		item.StudyType = *upd.StudyType
	}
	if upd.Priority != nil {
		item.Priority = *upd.Priority
	}
	if upd.Difficulty != nil {
		item.Difficulty = *upd.Difficulty
	}
	if upd.EstimatedHours != nil {
		item.EstimatedHours = *upd.EstimatedHours
	}
	if upd.CompletedHours != nil {
		item.CompletedHours = *upd.CompletedHours
	}
	if upd.Deadline != nil {
		item.Deadline = upd.Deadline
	}
	if err := validateItem(item); err != nil {
		return models.StudyItem{}, err
	}

	if upd.EstimatedHours != nil || upd.CompletedHours != nil {
		item.Progress = Progress(item.CompletedHours, item.EstimatedHours)
	}
	if upd.Completed != nil {
		if *upd.Completed {
			if !item.Completed {
				item.CompletedAt = &now
			}
			item.Progress = 100
		} else {
			item.CompletedAt = nil
		}
		item.Completed = *upd.Completed
	}

	item.UpdatedAt = now
	if err := t.store.UpdateStudyItem(ctx, item); err != nil {
		return models.StudyItem{}, err
	}
	return item, nil
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	return t.store.DeleteStudyItem(ctx, id)
}

// History returns items completed in the last days, most recent first.
func (t *Tracker) History(ctx context.Context, days int) ([]models.StudyItem, error) {
	if days <= 0 {
		days = constants.DefaultStudyHistDays
	}
	since := t.now().AddDate(0, 0, -days)
	return t.store.ListStudyItems(ctx, models.StudyFilter{CompletedSince: &since})
}

// Statistics summarizes every item. Hours are completed hours. Every known
// subject appears in BySubject.
func (t *Tracker) Statistics(ctx context.Context) (models.StudyStats, error) {
	items, err := t.store.ListStudyItems(ctx, models.StudyFilter{})
	if err != nil {
		return models.StudyStats{}, err
	}

	stats := models.StudyStats{BySubject: make(map[models.Subject]models.SubjectStats, len(subjects))}
	for _, s := range subjects {
		stats.BySubject[s] = models.SubjectStats{}
	}
	for _, item := range items {
		sub := stats.BySubject[item.Subject]
		sub.Total++
		sub.Hours += item.CompletedHours
		stats.Total++
		stats.TotalHours += item.CompletedHours
		if item.Completed {
			sub.Completed++
			stats.Completed++
		}
		stats.BySubject[item.Subject] = sub
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats, nil
}

// Recommend ranks the incomplete items.
func (t *Tracker) Recommend(ctx context.Context, limit int) ([]models.StudyRecommendation, error) {
	open := false
	items, err := t.store.ListStudyItems(ctx, models.StudyFilter{Completed: &open})
	if err != nil {
		return nil, err
	}
	return recommend.RecommendStudy(items, t.now(), limit), nil
}

func validateItem(item models.StudyItem) error {
	if item.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if !item.Subject.Valid() {
		return apperrors.InvalidInputf("unknown subject %q", item.Subject)
	}
	if !item.StudyType.Valid() {
		return apperrors.InvalidInputf("unknown study type %q", item.StudyType)
	}
	if err := validation.IntRange("priority", item.Priority, 1, 5); err != nil {
		return err
	}
	if err := validation.IntRange("difficulty", item.Difficulty, 1, 5); err != nil {
		return err
	}
	if item.EstimatedHours <= 0 || math.IsNaN(item.EstimatedHours) {
		return apperrors.InvalidInputf("estimated hours must be positive, got %v", item.EstimatedHours)
	}
	return validation.NonNegative("completed hours", item.CompletedHours)
}

// Timetable

// ListTimetable returns entries ordered by day then start time. A nil day
// lists the whole week.
func (t *Tracker) ListTimetable(ctx context.Context, day *int) ([]models.TimetableEntry, error) {
	if day != nil {
		if err := validation.IntRange("day of week", *day, 0, 6); err != nil {
			return nil, err
		}
	}
	return t.store.ListTimetable(ctx, day)
}

func (t *Tracker) GetTimetableEntry(ctx context.Context, id string) (models.TimetableEntry, error) {
	return t.store.GetTimetableEntry(ctx, id)
}

func (t *Tracker) AddTimetableEntry(ctx context.Context, e models.TimetableEntry) (models.TimetableEntry, error) {
	now := t.now()
	e.ID = uuid.NewString()
	e.Title = strings.TrimSpace(e.Title)
	if err := validateEntry(e); err != nil {
		return models.TimetableEntry{}, err
	}
	e.CreatedAt, e.UpdatedAt = now, now
	if err := t.store.AddTimetableEntry(ctx, e); err != nil {
		return models.TimetableEntry{}, err
	}
	return e, nil
}

func (t *Tracker) UpdateTimetableEntry(ctx context.Context, id string, upd models.TimetableUpdate) (models.TimetableEntry, error) {
	e, err := t.store.GetTimetableEntry(ctx, id)
	if err != nil {
		return models.TimetableEntry{}, err
	}
	if upd.DayOfWeek != nil {
		e.DayOfWeek = *upd.DayOfWeek
	}
	if upd.StartTime != nil {
		e.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		e.EndTime = *upd.EndTime
	}
	if upd.Subject != nil {
		e.Subject = *upd.Subject
	}
	if upd.Title != nil {
		e.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Room != nil {
		e.Room = *upd.Room
	}
	if upd.Teacher != nil {
		e.Teacher = *upd.Teacher
	}
	if err := validateEntry(e); err != nil {
		return models.TimetableEntry{}, err
	}
	e.UpdatedAt = t.now()
	if err := t.store.UpdateTimetableEntry(ctx, e); err != nil {
		return models.TimetableEntry{}, err
	}
	return e, nil
}

func (t *Tracker) DeleteTimetableEntry(ctx context.Context, id string) error {
	return t.store.DeleteTimetableEntry(ctx, id)
}

func validateEntry(e models.TimetableEntry) error {
	if e.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if !models.Subject(e.Subject).Valid() {
		return apperrors.InvalidInputf("unknown subject %q", e.Subject)
	}
	if err := validation.IntRange("day of week", e.DayOfWeek, 0, 6); err != nil {
		return err
	}
	if err := validation.ClockTime("start time", e.StartTime); err != nil {
		return err
	}
	if err := validation.ClockTime("end time", e.EndTime); err != nil {
		return err
	}
	start, _ := utils.ParseTimeToMinutes(e.StartTime)
	end, _ := utils.ParseTimeToMinutes(e.EndTime)
	if end <= start {
		return apperrors.InvalidInputf("end time %s must be after start time %s", e.EndTime, e.StartTime)
	}
	return nil
}
