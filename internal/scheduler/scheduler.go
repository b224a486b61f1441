// Package scheduler manages timed schedules and finds the free time between them.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/utils"
)

// SlotOptions tunes the free slot search. Start from DefaultSlotOptions.
type SlotOptions struct {
	WindowStart string // HH:MM
	WindowEnd   string // HH:MM
	MinDuration int    // minutes
	MaxFatigue  int    // 0-10
}

// DefaultSlotOptions is a 06:00-23:00 window, 30 minute slots and a fatigue
// ceiling of 10.
func DefaultSlotOptions() SlotOptions {
	return SlotOptions{
		WindowStart: constants.DefaultWindowStart,
		WindowEnd:   constants.DefaultWindowEnd,
		MinDuration: constants.DefaultMinDuration,
		MaxFatigue:  constants.DefaultMaxFatigue,
	}
}

// FindFreeSlots returns the gaps between schedules on day's calendar date, in
// day's location, that fall inside the activity window and last at least
// MinDuration minutes. Slots come back best scored first; equal scores stay in
// chronological order.
func FindFreeSlots(day time.Time, schedules []models.Schedule, opts SlotOptions) ([]models.FreeSlot, error) {
	if opts.MinDuration < 0 {
		return nil, apperrors.InvalidInputf("minimum duration must be non-negative, got %d", opts.MinDuration)
	}
	if opts.MaxFatigue < 0 || opts.MaxFatigue > constants.MaxFatigueCeiling {
		return nil, apperrors.InvalidInputf("max fatigue must be between 0 and %d, got %d", constants.MaxFatigueCeiling, opts.MaxFatigue)
	}

	windowStart, err := utils.AtClock(day, opts.WindowStart)
	if err != nil {
		return nil, apperrors.InvalidInputf("window start %q: %v", opts.WindowStart, err)
	}
	windowEnd, err := utils.AtClock(day, opts.WindowEnd)
	if err != nil {
		return nil, apperrors.InvalidInputf("window end %q: %v", opts.WindowEnd, err)
	}
	if !windowEnd.After(windowStart) {
		return nil, apperrors.InvalidInputf("window end %s must be after window start %s", opts.WindowEnd, opts.WindowStart)
	}

	dayStart := utils.StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var busy []models.Schedule
	for _, s := range schedules {
		if s.StartTime.Before(dayEnd) && !s.EndTime.Before(dayStart) {
			busy = append(busy, s)
		}
	}
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(busy[j].StartTime)
	})

	loc := day.Location()
	minLen := time.Duration(opts.MinDuration) * time.Minute
	var slots []models.FreeSlot
	emit := func(start, end time.Time) {
		if end.After(windowEnd) {
			end = windowEnd
		}
		start, end = start.In(loc), end.In(loc)
		if !start.Before(end) || end.Sub(start) < minLen {
			return
		}
		slots = append(slots, newSlot(start, end, opts.MaxFatigue))
	}

	cursor := windowStart
	for _, s := range busy {
		if cursor.Before(s.StartTime) {
			emit(cursor, s.StartTime)
		}
		if s.EndTime.After(cursor) {
			cursor = s.EndTime
		}
	}
	emit(cursor, windowEnd)

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].PriorityScore > slots[j].PriorityScore
	})
	return slots, nil
}

func newSlot(start, end time.Time, maxFatigue int) models.FreeSlot {
	minutes := end.Sub(start).Minutes()
	return models.FreeSlot{
		Start:         start,
		End:           end,
		DurationMin:   int(minutes),
		PriorityScore: PriorityScore(start.Hour(), minutes, maxFatigue),
	}
}

// PriorityScore rates a slot by time of day, length (capped at two hours) and
// remaining energy.
func PriorityScore(hour int, minutes float64, maxFatigue int) float64 {
	duration := minutes / 60
	if duration > 2.0 {
		duration = 2.0
	}
	fatigue := 1.0 - float64(maxFatigue)/10
	return timeScore(hour) * duration * fatigue
}

func timeScore(hour int) float64 {
	switch {
	case hour >= 8 && hour <= 10:
		return 1.5
	case hour >= 14 && hour <= 16:
		return 1.3
	case hour >= 19 && hour <= 21:
		return 1.2
	default:
		return 1.0
	}
}

// ParseDay reads a YYYY-MM-DD date in loc.
func ParseDay(date string, loc *time.Location) (time.Time, error) {
	d, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInputf("invalid date %q, expected %s", date, constants.DateFormat)
	}
	return d, nil
}

func formatSlot(s models.FreeSlot) string {
	return fmt.Sprintf("%s-%s (%d min)", s.Start.Format(constants.TimeFormat), s.End.Format(constants.TimeFormat), s.DurationMin)
}
