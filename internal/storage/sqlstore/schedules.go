package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/lifequest/internal/models"
)

const scheduleColumns = "id, title, description, start_time, end_time, schedule_type, priority, fatigue, completed, category, location, created_at, updated_at"

type scheduleRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	StartTime    string `db:"start_time"`
	EndTime      string `db:"end_time"`
	ScheduleType string `db:"schedule_type"`
	Priority     int    `db:"priority"`
	Fatigue      int    `db:"fatigue"`
	Completed    bool   `db:"completed"`
	Category     string `db:"category"`
	Location     string `db:"location"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r scheduleRow) model() (models.Schedule, error) {
	s := models.Schedule{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        models.ScheduleType(r.ScheduleType),
		Priority:    r.Priority,
		Fatigue:     r.Fatigue,
		Completed:   r.Completed,
		Category:    r.Category,
		Location:    r.Location,
	}
	var err error
	if s.StartTime, err = parseTS(r.StartTime); err != nil {
		return s, err
	}
	if s.EndTime, err = parseTS(r.EndTime); err != nil {
		return s, err
	}
	if s.CreatedAt, err = parseTS(r.CreatedAt); err != nil {
		return s, err
	}
	if s.UpdatedAt, err = parseTS(r.UpdatedAt); err != nil {
		return s, err
	}
	return s, nil
}

func (q *queries) AddSchedule(ctx context.Context, s models.Schedule) error {
	_, err := q.exec(ctx,
		"INSERT INTO schedules ("+scheduleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.Title, s.Description, ts(s.StartTime), ts(s.EndTime), string(s.Type), s.Priority,
		s.Fatigue, s.Completed, s.Category, s.Location, ts(s.CreatedAt), ts(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (q *queries) GetSchedule(ctx context.Context, id string) (models.Schedule, error) {
	var row scheduleRow
	if err := q.getOne(ctx, &row, "schedule", id, "SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id); err != nil {
		return models.Schedule{}, err
	}
	return row.model()
}

func (q *queries) ListSchedules(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	var w where
	if f.To != nil {
		w.add("start_time < ?", ts(*f.To))
	}
	if f.From != nil {
		w.add("end_time >= ?", ts(*f.From))
	}
	if f.Type != "" {
		w.add("schedule_type = ?", string(f.Type))
	}

	var rows []scheduleRow
	query := "SELECT " + scheduleColumns + " FROM schedules" + w.String() + " ORDER BY start_time ASC, end_time ASC"
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return convertAll(rows, scheduleRow.model)
}

func (q *queries) UpdateSchedule(ctx context.Context, s models.Schedule) error {
	return q.execOne(ctx, "schedule", s.ID,
		`UPDATE schedules SET title = ?, description = ?, start_time = ?, end_time = ?, schedule_type = ?,
		 priority = ?, fatigue = ?, completed = ?, category = ?, location = ?, updated_at = ? WHERE id = ?`,
		s.Title, s.Description, ts(s.StartTime), ts(s.EndTime), string(s.Type), s.Priority,
		s.Fatigue, s.Completed, s.Category, s.Location, ts(s.UpdatedAt), s.ID)
}

func (q *queries) DeleteSchedule(ctx context.Context, id string) error {
	return q.execOne(ctx, "schedule", id, "DELETE FROM schedules WHERE id = ?", id)
}
