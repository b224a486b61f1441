package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/lifequest/internal/models"
)

const studyColumns = "id, title, description, subject, study_type, priority, difficulty, estimated_hours, completed_hours, deadline, completed, progress_percentage, completed_at, created_at, updated_at"

type studyRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Subject        string         `db:"subject"`
	StudyType      string         `db:"study_type"`
	Priority       int            `db:"priority"`
	Difficulty     int            `db:"difficulty"`
	EstimatedHours float64        `db:"estimated_hours"`
	CompletedHours float64        `db:"completed_hours"`
	Deadline       sql.NullString `db:"deadline"`
	Completed      bool           `db:"completed"`
	Progress       int            `db:"progress_percentage"`
	CompletedAt    sql.NullString `db:"completed_at"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      string         `db:"updated_at"`
}

func (r studyRow) model() (models.StudyItem, error) {
	s := models.StudyItem{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Subject:        models.Subject(r.Subject),
		StudyType:      models.StudyType(r.StudyType),
		Priority:       r.Priority,
		Difficulty:     r.Difficulty,
		EstimatedHours: r.EstimatedHours,
		CompletedHours: r.CompletedHours,
		Completed:      r.Completed,
		Progress:       r.Progress,
	}
	var err error
	if s.Deadline, err = parseNullTS(r.Deadline); err != nil {
		return s, err
	}
	if s.CompletedAt, err = parseNullTS(r.CompletedAt); err != nil {
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

func (q *queries) AddStudyItem(ctx context.Context, s models.StudyItem) error {
	_, err := q.exec(ctx,
		"INSERT INTO study_items ("+studyColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.Title, s.Description, string(s.Subject), string(s.StudyType), s.Priority, s.Difficulty,
		s.EstimatedHours, s.CompletedHours, nullTS(s.Deadline), s.Completed, s.Progress,
		nullTS(s.CompletedAt), ts(s.CreatedAt), ts(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert study item: %w", err)
	}
	return nil
}

func (q *queries) GetStudyItem(ctx context.Context, id string) (models.StudyItem, error) {
	var row studyRow
	if err := q.getOne(ctx, &row, "study item", id, "SELECT "+studyColumns+" FROM study_items WHERE id = ?", id); err != nil {
		return models.StudyItem{}, err
	}
	return row.model()
}

func (q *queries) ListStudyItems(ctx context.Context, f models.StudyFilter) ([]models.StudyItem, error) {
	var w where
	if f.Subject != "" {
		w.add("subject = ?", string(f.Subject))
	}
	if f.StudyType != "" {
		w.add("study_type = ?", string(f.StudyType))
	}
	if f.Completed != nil {
		w.add("completed = ?", *f.Completed)
	}

	order := " ORDER BY created_at DESC"
	if f.CompletedSince != nil {
		w.add("completed = ? AND completed_at >= ?", true, ts(*f.CompletedSince))
		order = " ORDER BY completed_at DESC"
	}

	var rows []studyRow
	query := "SELECT " + studyColumns + " FROM study_items" + w.String() + order + limitClause(f.Limit)
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list study items: %w", err)
	}
	return convertAll(rows, studyRow.model)
}

func (q *queries) UpdateStudyItem(ctx context.Context, s models.StudyItem) error {
	return q.execOne(ctx, "study item", s.ID,
		`UPDATE study_items SET title = ?, description = ?, subject = ?, study_type = ?, priority = ?,
		 difficulty = ?, estimated_hours = ?, completed_hours = ?, deadline = ?, completed = ?,
		 progress_percentage = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		s.Title, s.Description, string(s.Subject), string(s.StudyType), s.Priority, s.Difficulty,
		s.EstimatedHours, s.CompletedHours, nullTS(s.Deadline), s.Completed, s.Progress,
		nullTS(s.CompletedAt), ts(s.UpdatedAt), s.ID)
}

func (q *queries) DeleteStudyItem(ctx context.Context, id string) error {
	return q.execOne(ctx, "study item", id, "DELETE FROM study_items WHERE id = ?", id)
}

const timetableColumns = "id, day_of_week, start_time, end_time, subject, title, room, teacher, created_at, updated_at"

type timetableRow struct {
	ID        string `db:"id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Subject   string `db:"subject"`
	Title     string `db:"title"`
	Room      string `db:"room"`
	Teacher   string `db:"teacher"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r timetableRow) model() (models.TimetableEntry, error) {
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.TimetableEntry{}, err
	}
	updated, err := parseTS(r.UpdatedAt)
	if err != nil {
		return models.TimetableEntry{}, err
	}
	return models.TimetableEntry{
		ID:        r.ID,
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Subject:   r.Subject,
		Title:     r.Title,
		Room:      r.Room,
		Teacher:   r.Teacher,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func (q *queries) AddTimetableEntry(ctx context.Context, e models.TimetableEntry) error {
	_, err := q.exec(ctx,
		"INSERT INTO timetable_entries ("+timetableColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.DayOfWeek, e.StartTime, e.EndTime, e.Subject, e.Title, e.Room, e.Teacher,
		ts(e.CreatedAt), ts(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert timetable entry: %w", err)
	}
	return nil
}

func (q *queries) GetTimetableEntry(ctx context.Context, id string) (models.TimetableEntry, error) {
	var row timetableRow
	if err := q.getOne(ctx, &row, "timetable entry", id, "SELECT "+timetableColumns+" FROM timetable_entries WHERE id = ?", id); err != nil {
		return models.TimetableEntry{}, err
	}
	return row.model()
}

func (q *queries) ListTimetable(ctx context.Context, dayOfWeek *int) ([]models.TimetableEntry, error) {
	var w where
	if dayOfWeek != nil {
		w.add("day_of_week = ?", *dayOfWeek)
	}

	var rows []timetableRow
	query := "SELECT " + timetableColumns + " FROM timetable_entries" + w.String() + " ORDER BY day_of_week ASC, start_time ASC"
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list timetable: %w", err)
	}
	return convertAll(rows, timetableRow.model)
}

func (q *queries) UpdateTimetableEntry(ctx context.Context, e models.TimetableEntry) error {
	return q.execOne(ctx, "timetable entry", e.ID,
		`UPDATE timetable_entries SET day_of_week = ?, start_time = ?, end_time = ?, subject = ?, title = ?,
		 room = ?, teacher = ?, updated_at = ? WHERE id = ?`,
		e.DayOfWeek, e.StartTime, e.EndTime, e.Subject, e.Title, e.Room, e.Teacher, ts(e.UpdatedAt), e.ID)
}

func (q *queries) DeleteTimetableEntry(ctx context.Context, id string) error {
	return q.execOne(ctx, "timetable entry", id, "DELETE FROM timetable_entries WHERE id = ?", id)
}
