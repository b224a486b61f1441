package models

import "time"

type ScheduleType string

const (
	ScheduleFixed    ScheduleType = "fixed"
	ScheduleFlexible ScheduleType = "flexible"
)

type Schedule struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
	Type        ScheduleType `json:"schedule_type"`
	Priority    int          `json:"priority"`
	Fatigue     int          `json:"fatigue"`
	Completed   bool         `json:"completed"`
	Category    string       `json:"category,omitempty"`
	Location    string       `json:"location,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type ScheduleUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	StartTime   *time.Time    `json:"start_time,omitempty"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Type        *ScheduleType `json:"schedule_type,omitempty"`
	Priority    *int          `json:"priority,omitempty"`
	Fatigue     *int          `json:"fatigue,omitempty"`
	Completed   *bool         `json:"completed,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Location    *string       `json:"location,omitempty"`
}

// ScheduleFilter selects schedules overlapping [From, To): start < To and end >= From.
type ScheduleFilter struct {
	From *time.Time
	To   *time.Time
	Type ScheduleType
}

type FreeSlot struct {
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	DurationMin   int       `json:"duration_minutes"`
	PriorityScore float64   `json:"priority_score"`
}
