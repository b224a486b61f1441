// Package tasks tracks to-do items, their deadlines and reminders.
package tasks

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/utils"
	"github.com/julianstephens/lifequest/internal/validation"
)

// ReminderOptions places the daily "before bed" reminder.
type ReminderOptions struct {
	SleepTime string // HH:MM
	LeadHours int
}

func DefaultReminderOptions() ReminderOptions {
	return ReminderOptions{SleepTime: constants.DefaultSleepTime, LeadHours: constants.DefaultReminderLeadHours}
}

type Tracker struct {
	store     storage.Store
	reminders ReminderOptions
	loc       *time.Location
	now       func() time.Time
}

func New(store storage.Store, reminders ReminderOptions, loc *time.Location, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{store: store, reminders: reminders, loc: loc, now: now}
}

// Create stores a task. The type defaults to normal.
func (t *Tracker) Create(ctx context.Context, task models.Task) (models.Task, error) {
	now := t.now()
	task.ID = uuid.NewString()
	task.Title = strings.TrimSpace(task.Title)
	if task.Type == "" {
		task.Type = models.TaskTypeNormal
	}
	task.CompletedAt = nil
	if task.Completed {
		task.CompletedAt = &now
	}
	task.CreatedAt, task.UpdatedAt = now, now
	if err := validateTask(task); err != nil {
		return models.Task{}, err
	}
	if err := t.store.AddTask(ctx, task); err != nil {
		return models.Task{}, err
	}
	logger.Debug("Created task", "id", task.ID, "type", task.Type)
	return task, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (models.Task, error) {
	return t.store.GetTask(ctx, id)
}

// List orders tasks by priority, then deadline with undated tasks last.
func (t *Tracker) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if filter.Type != "" && !validType(filter.Type) {
		return nil, apperrors.InvalidInputf("unknown task type %q", filter.Type)
	}
	return t.store.ListTasks(ctx, filter)
}

// Update applies upd. completed_at follows completed: set when a task becomes
// complete, cleared when it is reopened.
func (t *Tracker) Update(ctx context.Context, id string, upd models.TaskUpdate) (models.Task, error) {
	task, err := t.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	now := t.now()

	if upd.Title != nil {
		task.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.ClearDue {
		task.Deadline = nil
	} else if upd.Deadline != nil {
		task.Deadline = upd.Deadline
	}
	if upd.Fatigue != nil {
		task.Fatigue = *upd.Fatigue
	}
	if upd.Reward != nil {
		task.Reward = *upd.Reward
	}
	if upd.Type != nil {
		task.Type = *upd.Type
	}
	if upd.Category != nil {
		task.Category = *upd.Category
	}
	if upd.DurationMin != nil {
		task.DurationMin = *upd.DurationMin
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Completed != nil {
		switch {
		case *upd.Completed && !task.Completed:
			task.CompletedAt = &now
		case !*upd.Completed:
			task.CompletedAt = nil
		}
		task.Completed = *upd.Completed
	}
	if err := validateTask(task); err != nil {
		return models.Task{}, err
	}

	task.UpdatedAt = now
	if err := t.store.UpdateTask(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	return t.store.DeleteTask(ctx, id)
}

func (t *Tracker) Complete(ctx context.Context, id string) (models.Task, error) {
	done := true
	return t.Update(ctx, id, models.TaskUpdate{Completed: &done})
}

func (t *Tracker) Undo(ctx context.Context, id string) (models.Task, error) {
	done := false
	return t.Update(ctx, id, models.TaskUpdate{Completed: &done})
}

// DueWithin returns incomplete tasks whose deadline is at most days away,
// including overdue ones, earliest deadline first.
func (t *Tracker) DueWithin(ctx context.Context, days int) ([]models.Task, error) {
	if days < 0 {
		return nil, apperrors.InvalidInputf("days must be non-negative, got %d", days)
	}
	return t.dueBefore(ctx, t.now().AddDate(0, 0, days))
}

// Overdue returns incomplete tasks whose deadline has passed.
func (t *Tracker) Overdue(ctx context.Context) ([]models.Task, error) {
	now := t.now()
	due, err := t.dueBefore(ctx, now)
	if err != nil {
		return nil, err
	}
	overdue := due[:0]
	for _, task := range due {
		if task.Deadline.Before(now) {
			overdue = append(overdue, task)
		}
	}
	return overdue, nil
}

func (t *Tracker) dueBefore(ctx context.Context, until time.Time) ([]models.Task, error) {
	open := false
	tasks, err := t.store.ListTasks(ctx, models.TaskFilter{Completed: &open, DeadlineUntil: &until})
	if err != nil {
		return nil, err
	}
	sortByDeadline(tasks)
	return tasks, nil
}

// Daily returns every daily task, complete or not.
func (t *Tracker) Daily(ctx context.Context) ([]models.Task, error) {
	return t.store.ListTasks(ctx, models.TaskFilter{Type: models.TaskTypeDaily})
}

// History returns completed tasks, most recently completed first.
func (t *Tracker) History(ctx context.Context, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = constants.DefaultTaskHistLimit
	}
	done := true
	return t.store.ListTasks(ctx, models.TaskFilter{Completed: &done, CompletedOrder: true, Limit: limit})
}

func (t *Tracker) Statistics(ctx context.Context) (models.TaskStats, error) {
	all, err := t.store.ListTasks(ctx, models.TaskFilter{})
	if err != nil {
		return models.TaskStats{}, err
	}
	now := t.now()

	var stats models.TaskStats
	stats.Total = len(all)
	for _, task := range all {
		if task.Completed {
			stats.Completed++
			continue
		}
		if task.Deadline != nil && task.Deadline.Before(now) {
			stats.Overdue++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats, nil
}

// CloneFromHistory creates an open copy of a task with its deadline cleared.
func (t *Tracker) CloneFromHistory(ctx context.Context, id string) (models.Task, error) {
	src, err := t.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	return t.Create(ctx, models.Task{
		Title:       src.Title,
		Description: src.Description,
		Fatigue:     src.Fatigue,
		Reward:      src.Reward,
		Type:        src.Type,
		Category:    src.Category,
		DurationMin: src.DurationMin,
		Priority:    src.Priority,
	})
}

// ResetDaily reopens every completed daily task.
func (t *Tracker) ResetDaily(ctx context.Context) (int64, error) {
	n, err := t.store.ResetDailyTasks(ctx, t.now())
	if err != nil {
		return 0, err
	}
	logger.Info("Reset daily tasks", "count", n)
	return n, nil
}

// Upcoming returns reminders that fire within the next hours. A task's
// reminder fires at the earlier of LeadHours before today's sleep time and
// thirty minutes before its deadline.
func (t *Tracker) Upcoming(ctx context.Context, hours int) ([]models.Reminder, error) {
	if hours <= 0 {
		hours = constants.DefaultReminderHours
	}
	now := t.now().In(t.loc)
	horizon := now.Add(time.Duration(hours) * time.Hour)

	sleep, err := utils.AtClock(now, t.reminders.SleepTime)
	if err != nil {
		return nil, apperrors.InvalidInputf("sleep time %q: %v", t.reminders.SleepTime, err)
	}
	beforeBed := sleep.Add(-time.Duration(t.reminders.LeadHours) * time.Hour)

	due, err := t.dueBefore(ctx, horizon)
	if err != nil {
		return nil, err
	}

	var reminders []models.Reminder
	for _, task := range due {
		at := task.Deadline.Add(-constants.DeadlineReminderOffset * time.Minute)
		if beforeBed.Before(at) {
			at = beforeBed
		}
		if at.Before(now) || at.After(horizon) {
			continue
		}
		at = at.In(t.loc)
		reminders = append(reminders, models.Reminder{
			Kind:     models.ReminderUpcoming,
			Task:     task,
			RemindAt: &at,
			Message:  fmt.Sprintf("Task %q is due soon", task.Title),
		})
	}
	return reminders, nil
}

// OverdueReminders returns one reminder per overdue task with the number of
// whole hours it is late.
func (t *Tracker) OverdueReminders(ctx context.Context) ([]models.Reminder, error) {
	overdue, err := t.Overdue(ctx)
	if err != nil {
		return nil, err
	}
	now := t.now()
	reminders := make([]models.Reminder, 0, len(overdue))
	for _, task := range overdue {
		reminders = append(reminders, models.Reminder{
			Kind:         models.ReminderOverdue,
			Task:         task,
			OverdueHours: math.Floor(now.Sub(*task.Deadline).Hours()),
			Message:      fmt.Sprintf("Task %q is overdue", task.Title),
		})
	}
	return reminders, nil
}

// DailyResetReminders lists completed daily tasks that can be reset.
func (t *Tracker) DailyResetReminders(ctx context.Context) ([]models.Reminder, error) {
	done := true
	daily, err := t.store.ListTasks(ctx, models.TaskFilter{Type: models.TaskTypeDaily, Completed: &done})
	if err != nil {
		return nil, err
	}
	reminders := make([]models.Reminder, 0, len(daily))
	for _, task := range daily {
		reminders = append(reminders, models.Reminder{
			Kind:    models.ReminderDailyReset,
			Task:    task,
			Message: fmt.Sprintf("Daily task %q can be reset", task.Title),
		})
	}
	return reminders, nil
}

func validType(typ models.TaskType) bool {
	return typ == models.TaskTypeDaily || typ == models.TaskTypeNormal
}

func validateTask(task models.Task) error {
	if task.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if !validType(task.Type) {
		return apperrors.InvalidInputf("unknown task type %q", task.Type)
	}
	if err := validation.NonNegative("fatigue", float64(task.Fatigue)); err != nil {
		return err
	}
	if err := validation.NonNegative("duration", float64(task.DurationMin)); err != nil {
		return err
	}
	return validation.NonNegative("reward", float64(task.Reward))
}

func sortByDeadline(tasks []models.Task) {
	// Insertion sort keeps the store's priority order among equal deadlines.
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && tasks[j].Deadline.Before(*tasks[j-1].Deadline); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}
