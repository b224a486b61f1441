package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/utils"
	"github.com/julianstephens/lifequest/internal/validation"
)

// Service stores schedules and answers day and week queries in loc.
type Service struct {
	store     storage.Store
	defaults  SlotOptions
	loc       *time.Location
	now       func() time.Time
	validator *validation.Validator
}

func NewService(store storage.Store, defaults SlotOptions, loc *time.Location, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:     store,
		defaults:  defaults,
		loc:       loc,
		now:       now,
		validator: validation.New().WithWindow(defaults.WindowStart, defaults.WindowEnd),
	}
}

// Create stores s. The type defaults to flexible.
func (svc *Service) Create(ctx context.Context, s models.Schedule) (models.Schedule, error) {
	now := svc.now()
	s.ID = uuid.NewString()
	s.Title = strings.TrimSpace(s.Title)
	if s.Type == "" {
		s.Type = models.ScheduleFlexible
	}
	s.CreatedAt, s.UpdatedAt = now, now
	if err := validateSchedule(s); err != nil {
		return models.Schedule{}, err
	}
	if err := svc.store.AddSchedule(ctx, s); err != nil {
		return models.Schedule{}, err
	}
	logger.Debug("Created schedule", "id", s.ID, "start", s.StartTime, "end", s.EndTime)
	return s, nil
}

func (svc *Service) Get(ctx context.Context, id string) (models.Schedule, error) {
	return svc.store.GetSchedule(ctx, id)
}

// List returns schedules overlapping [from, to) ordered by start. Nil bounds
// are open.
func (svc *Service) List(ctx context.Context, from, to *time.Time, typ models.ScheduleType) ([]models.Schedule, error) {
	if typ != "" && typ != models.ScheduleFixed && typ != models.ScheduleFlexible {
		return nil, apperrors.InvalidInputf("unknown schedule type %q", typ)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.InvalidInputf("range end is before range start")
	}
	return svc.store.ListSchedules(ctx, models.ScheduleFilter{From: from, To: to, Type: typ})
}

// Update applies upd and re-checks start <= end.
func (svc *Service) Update(ctx context.Context, id string, upd models.ScheduleUpdate) (models.Schedule, error) {
	s, err := svc.store.GetSchedule(ctx, id)
	if err != nil {
		return models.Schedule{}, err
	}
	if upd.Title != nil {
		s.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		s.Description = *upd.Description
	}
	if upd.StartTime != nil {
		s.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		s.EndTime = *upd.EndTime
	}
	if upd.Type != nil {
		s.Type = *upd.Type
	}
	if upd.Priority != nil {
		s.Priority = *upd.Priority
	}
	if upd.Fatigue != nil {
		s.Fatigue = *upd.Fatigue
	}
	if upd.Completed != nil {
		s.Completed = *upd.Completed
	}
	if upd.Category != nil {
		s.Category = *upd.Category
	}
	if upd.Location != nil {
		s.Location = *upd.Location
	}
	if err := validateSchedule(s); err != nil {
		return models.Schedule{}, err
	}
	s.UpdatedAt = svc.now()
	if err := svc.store.UpdateSchedule(ctx, s); err != nil {
		return models.Schedule{}, err
	}
	return s, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.store.DeleteSchedule(ctx, id)
}

func (svc *Service) Complete(ctx context.Context, id string) (models.Schedule, error) {
	done := true
	return svc.Update(ctx, id, models.ScheduleUpdate{Completed: &done})
}

func (svc *Service) Undo(ctx context.Context, id string) (models.Schedule, error) {
	done := false
	return svc.Update(ctx, id, models.ScheduleUpdate{Completed: &done})
}

// Today lists the schedules overlapping the current local day.
func (svc *Service) Today(ctx context.Context) ([]models.Schedule, error) {
	start := utils.StartOfDay(svc.now().In(svc.loc))
	end := start.AddDate(0, 0, 1)
	return svc.List(ctx, &start, &end, "")
}

// Week lists seven days of schedules from start, or from this week's Monday
// when start is nil.
func (svc *Service) Week(ctx context.Context, start *time.Time) ([]models.Schedule, error) {
	var from time.Time
	if start != nil {
		from = utils.StartOfDay(start.In(svc.loc))
	} else {
		from = utils.StartOfWeek(svc.now().In(svc.loc))
	}
	to := from.AddDate(0, 0, 7)
	return svc.List(ctx, &from, &to, "")
}

// SlotQuery selects the day and thresholds of a free slot search. Empty Date
// means today; nil thresholds take the service defaults.
type SlotQuery struct {
	Date        string
	MinDuration *int
	MaxFatigue  *int
}

// FreeSlots loads the schedules overlapping the requested day and runs
// FindFreeSlots over them.
func (svc *Service) FreeSlots(ctx context.Context, q SlotQuery) ([]models.FreeSlot, error) {
	day, err := svc.day(q.Date)
	if err != nil {
		return nil, err
	}
	opts := svc.defaults
	if q.MinDuration != nil {
		opts.MinDuration = *q.MinDuration
	}
	if q.MaxFatigue != nil {
		opts.MaxFatigue = *q.MaxFatigue
	}

	end := day.AddDate(0, 0, 1)
	schedules, err := svc.List(ctx, &day, &end, "")
	if err != nil {
		return nil, err
	}
	slots, err := FindFreeSlots(day, schedules, opts)
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		logger.Debug("Found free slots", "date", day.Format("2006-01-02"), "count", len(slots), "best", formatSlot(slots[0]))
	}
	return slots, nil
}

// Conflicts validates the schedules of the requested day.
func (svc *Service) Conflicts(ctx context.Context, date string) (validation.ValidationResult, error) {
	day, err := svc.day(date)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	end := day.AddDate(0, 0, 1)
	schedules, err := svc.List(ctx, &day, &end, "")
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return svc.validator.ValidateSchedules(day, schedules), nil
}

func (svc *Service) day(date string) (time.Time, error) {
	if date == "" {
		return utils.StartOfDay(svc.now().In(svc.loc)), nil
	}
	return ParseDay(date, svc.loc)
}

func validateSchedule(s models.Schedule) error {
	if s.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if s.Type != models.ScheduleFixed && s.Type != models.ScheduleFlexible {
		return apperrors.InvalidInputf("unknown schedule type %q", s.Type)
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return apperrors.InvalidInputf("start and end times are required")
	}
	return validation.ValidateScheduleRange(s.StartTime, s.EndTime)
}
