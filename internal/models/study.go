package models

import "time"

type Subject string

const (
	SubjectMath        Subject = "math"
	SubjectScience     Subject = "science"
	SubjectLanguage    Subject = "language"
	SubjectProgramming Subject = "programming"
	SubjectLiterature  Subject = "literature"
	SubjectHistory     Subject = "history"
	SubjectOther       Subject = "other"
)

type StudyType string

const (
	StudyLecture    StudyType = "lecture"
	StudyAssignment StudyType = "assignment"
	StudyExam       StudyType = "exam"
	StudySelf       StudyType = "self_study"
)

var validSubjects = map[Subject]bool{
	SubjectMath: true, SubjectScience: true, SubjectLanguage: true, SubjectProgramming: true,
	SubjectLiterature: true, SubjectHistory: true, SubjectOther: true,
}

var validStudyTypes = map[StudyType]bool{
	StudyLecture: true, StudyAssignment: true, StudyExam: true, StudySelf: true,
}

func (s Subject) Valid() bool   { return validSubjects[s] }
func (s StudyType) Valid() bool { return validStudyTypes[s] }

type StudyItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Subject        Subject    `json:"subject"`
	StudyType      StudyType  `json:"study_type"`
	Priority       int        `json:"priority"`
	Difficulty     int        `json:"difficulty"`
	EstimatedHours float64    `json:"estimated_hours"`
	CompletedHours float64    `json:"completed_hours"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Completed      bool       `json:"completed"`
	Progress       int        `json:"progress_percentage"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type StudyUpdate struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Subject        *Subject   `json:"subject,omitempty"`
	StudyType      *StudyType `json:"study_type,omitempty"`
	Priority       *int       `json:"priority,omitempty"`
	Difficulty     *int       `json:"difficulty,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	CompletedHours *float64   `json:"completed_hours,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Completed      *bool      `json:"completed,omitempty"`
}

type StudyFilter struct {
	Subject        Subject
	StudyType      StudyType
	Completed      *bool
	CompletedSince *time.Time
	Limit          int
}

type SubjectStats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Hours     float64 `json:"total_hours"`
}

type StudyStats struct {
	Total          int                      `json:"total_items"`
	Completed      int                      `json:"completed_items"`
	CompletionRate float64                  `json:"completion_rate"`
	TotalHours     float64                  `json:"total_study_hours"`
	BySubject      map[Subject]SubjectStats `json:"subject_stats"`
}

type StudyRecommendation struct {
	Item   StudyItem `json:"study"`
	Score  float64   `json:"recommendation_score"`
	Reason string    `json:"reason"`
}

type TimetableEntry struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"` // 0=Monday
	StartTime string    `json:"start_time"`  // HH:MM
	EndTime   string    `json:"end_time"`    // HH:MM
	Subject   string    `json:"subject"`
	Title     string    `json:"title"`
	Room      string    `json:"room,omitempty"`
	Teacher   string    `json:"teacher,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TimetableUpdate struct {
	DayOfWeek *int    `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Subject   *string `json:"subject,omitempty"`
	Title     *string `json:"title,omitempty"`
	Room      *string `json:"room,omitempty"`
	Teacher   *string `json:"teacher,omitempty"`
}
