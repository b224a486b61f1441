package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingFixed ConflictType = "overlapping_fixed_schedules"
	ConflictInvertedRange    ConflictType = "inverted_range"
	ConflictOutsideWindow    ConflictType = "outside_activity_window"
)

// Conflict represents a detected conflict between schedules
type Conflict struct {
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Items       []string     `json:"items"`
	TimeRange   string       `json:"time_range,omitempty"`
	ScheduleIDs []string     `json:"schedule_ids"`
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks a day's schedules against each other and the activity window
type Validator struct {
	windowStart string
	windowEnd   string
}

// New creates a Validator using the default 06:00-23:00 activity window
func New() *Validator {
	return &Validator{windowStart: constants.DefaultWindowStart, windowEnd: constants.DefaultWindowEnd}
}

// WithWindow returns a copy of v that reports schedules outside [start, end)
func (v *Validator) WithWindow(start, end string) *Validator {
	return &Validator{windowStart: start, windowEnd: end}
}

// ValidateSchedules reports inverted ranges, fixed schedules that overlap each
// other and fixed schedules reaching outside the activity window of day.
func (v *Validator) ValidateSchedules(day time.Time, schedules []models.Schedule) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	var fixed []models.Schedule
	for _, s := range schedules {
		if s.EndTime.Before(s.StartTime) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvertedRange,
				Description: fmt.Sprintf("Schedule \"%s\" ends before it starts", s.Title),
				Items:       []string{s.Title},
				TimeRange:   formatRange(s.StartTime, s.EndTime),
				ScheduleIDs: []string{s.ID},
			})
			continue
		}
		if s.Type == models.ScheduleFixed {
			fixed = append(fixed, s)
		}
	}

	sort.Slice(fixed, func(i, j int) bool {
		return fixed[i].StartTime.Before(fixed[j].StartTime)
	})

	// Sweep: each schedule is compared with every later one that starts
	// before it ends.
	for i := 0; i < len(fixed); i++ {
		for j := i + 1; j < len(fixed); j++ {
			a, b := fixed[i], fixed[j]
			if !b.StartTime.Before(a.EndTime) {
				break
			}
			end := a.EndTime
			if b.EndTime.Before(end) {
				end = b.EndTime
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOverlappingFixed,
				Description: fmt.Sprintf("Fixed schedules overlap: \"%s\" and \"%s\" (%s)", a.Title, b.Title, formatRange(b.StartTime, end)),
				Items:       []string{a.Title, b.Title},
				TimeRange:   formatRange(b.StartTime, end),
				ScheduleIDs: []string{a.ID, b.ID},
			})
		}
	}

	startMin, errStart := parseClock(v.windowStart)
	endMin, errEnd := parseClock(v.windowEnd)
	if errStart != nil || errEnd != nil {
		return result
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	windowStart := dayStart.Add(time.Duration(startMin) * time.Minute)
	windowEnd := dayStart.Add(time.Duration(endMin) * time.Minute)
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, s := range fixed {
		// Schedules spilling over midnight are judged on the day they start and end.
		if s.StartTime.Before(dayStart) || s.EndTime.After(dayEnd) {
			continue
		}
		if s.StartTime.Before(windowStart) || s.EndTime.After(windowEnd) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOutsideWindow,
				Description: fmt.Sprintf("Schedule \"%s\" falls outside the activity window %s-%s", s.Title, v.windowStart, v.windowEnd),
				Items:       []string{s.Title},
				TimeRange:   formatRange(s.StartTime, s.EndTime),
				ScheduleIDs: []string{s.ID},
			})
		}
	}

	return result
}

// ValidateScheduleRange returns ErrInvalidInput when end precedes start.
func ValidateScheduleRange(start, end time.Time) error {
	if end.Before(start) {
		return apperrors.InvalidInputf("end time %s is before start time %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// IntRange returns ErrInvalidInput unless min <= v <= max.
func IntRange(field string, v, min, max int) error {
	if v < min || v > max {
		return apperrors.InvalidInputf("%s must be between %d and %d, got %d", field, min, max, v)
	}
	return nil
}

// NonNegative returns ErrInvalidInput when v < 0.
func NonNegative(field string, v float64) error {
	if v < 0 {
		return apperrors.InvalidInputf("%s must be non-negative, got %v", field, v)
	}
	return nil
}

// ClockTime returns ErrInvalidInput unless s is HH:MM.
func ClockTime(field, s string) error {
	if _, err := parseClock(s); err != nil {
		return apperrors.InvalidInputf("%s must be HH:MM, got %q", field, s)
	}
	return nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format(constants.TimeFormat), end.Format(constants.TimeFormat))
}
