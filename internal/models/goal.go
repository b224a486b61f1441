package models

import "time"

type Goal struct {
	ID            string     `json:"id"`
	Currency      Currency   `json:"currency"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Progress is the current/target ratio in percent, capped at 100.
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
	if p > 100 {
		return 100
	}
	return p
}

type GoalUpdate struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	TargetAmount  *int64     `json:"target_amount,omitempty"`
	CurrentAmount *int64     `json:"current_amount,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Completed     *bool      `json:"completed,omitempty"`
}
