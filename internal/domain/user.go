package domain

import (
	"time"
)

// User represents a registered learner on the platform.
type User struct {
	ID                      string    `json:"id"`
	Email                   string    `json:"email"`
	Name                    string    `json:"name"`
	Age                     *int      `json:"age,omitempty"`
	PasswordHash            string    `json:"-"`
	NumberOfEnrolledCourses int       `json:"number_of_enrolled_courses"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Admin represents a platform administrator. Admins share the user attribute
// set but live in their own store: they carry an elevated-access flag, have no
// update operation, and are never tracked in the session registry.
type Admin struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Age               *int      `json:"age,omitempty"`
	PasswordHash      string    `json:"-"`
	HasElevatedAccess bool      `json:"has_elevated_access"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RefreshToken represents a stored refresh token for a session. Only the
// SHA256 hash of the token string is persisted. Row existence is authoritative
// for whether the token can still be exchanged; sign-out deletes the row.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
