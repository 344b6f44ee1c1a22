package domain

import "time"

// Course represents a course offered on the platform. NumberOfStudents is a
// denormalized counter kept equal to the number of live enrollments for the
// course via atomic delta updates.
type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	IsActive         bool      `json:"is_active"`
	NumberOfStudents int       `json:"number_of_students"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
