package models

import "time"

type TaskType string

const (
	TaskTypeDaily  TaskType = "daily"
	TaskTypeNormal TaskType = "normal"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Fatigue     int        `json:"fatigue"`
	Reward      int64      `json:"reward"`
	Completed   bool       `json:"completed"`
	Type        TaskType   `json:"task_type"`
	Category    string     `json:"category,omitempty"`
	DurationMin int        `json:"duration"`
	Priority    int        `json:"priority"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ClearDue    bool       `json:"clear_deadline,omitempty"`
	Fatigue     *int       `json:"fatigue,omitempty"`
	Reward      *int64     `json:"reward,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Type        *TaskType  `json:"task_type,omitempty"`
	Category    *string    `json:"category,omitempty"`
	DurationMin *int       `json:"duration,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
}

type TaskFilter struct {
	Type          TaskType
	Category      string
	Completed     *bool
	DeadlineUntil *time.Time // deadline <= value, tasks without deadline excluded
	DeadlineSince *time.Time // deadline >= value
	// CompletedOrder sorts by completed_at descending instead of priority
	CompletedOrder bool
	Limit          int
}

type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

type ReminderKind string

const (
	ReminderUpcoming   ReminderKind = "upcoming"
	ReminderOverdue    ReminderKind = "overdue"
	ReminderDailyReset ReminderKind = "daily_reset"
)

type Reminder struct {
	Kind         ReminderKind `json:"kind"`
	Task         Task         `json:"task"`
	RemindAt     *time.Time   `json:"remind_at,omitempty"`
	OverdueHours float64      `json:"overdue_hours,omitempty"`
	Message      string       `json:"message"`
}
