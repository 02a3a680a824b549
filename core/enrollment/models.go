package enrollment

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Enrollment statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusDropped   = "dropped"
)

type Enrollment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	Status      string    `json:"status"`
	EnrolledAt  time.Time `json:"enrolled_at"`  // UTC
	CompletedAt time.Time `json:"completed_at"` // UTC; zero until completed
}

type LessonProgress struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollment_id"`
	LessonID     string    `json:"lesson_id"`
	Completed    bool      `json:"completed"`
	CompletedAt  time.Time `json:"completed_at"` // UTC
}

// Progress summarizes how far along an enrollment is.
type Progress struct {
	EnrollmentID     string  `json:"enrollment_id"`
	CourseID         string  `json:"course_id"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percent          float64 `json:"percent"`
}

type QueryFilter struct {
	UserID   string `query:"user"`
	CourseID string `query:"course"`
	Status   string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.UserID = core.CleanString(qf.UserID)
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
