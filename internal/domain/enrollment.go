package domain

import "time"

// Enrollment links exactly one user to exactly one course. At most one
// enrollment exists per (user, course) pair; the timestamp is set at creation
// and never changes.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
