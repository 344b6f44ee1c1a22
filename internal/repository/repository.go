package repository

import (
	"context"
	"time"

	"github.com/learnhub/learnhub/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (case-sensitive exact match).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user, their refresh tokens, and their enrollments,
	// decrementing the student counter of every course they were enrolled in.
	Delete(ctx context.Context, id string) error
}

// AdminRepository defines the interface for admin persistence operations.
// Admins have no update operation.
type AdminRepository interface {
	// Create inserts a new admin into the store.
	Create(ctx context.Context, admin *domain.Admin) error

	// GetByID retrieves an admin by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Admin, error)

	// GetByEmail retrieves an admin by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)

	// List returns all admins.
	List(ctx context.Context) ([]domain.Admin, error)

	// Delete removes an admin from the store.
	Delete(ctx context.Context, id string) error
}

// CourseRepository defines the interface for course persistence operations.
type CourseRepository interface {
	// Create inserts a new course into the store.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Course, error)

	// List returns all courses.
	List(ctx context.Context) ([]domain.Course, error)

	// Update modifies an existing course in the store.
	Update(ctx context.Context, course *domain.Course) error

	// Delete removes a course and its enrollments, decrementing the enrolled
	// course counter of every affected user.
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository defines the interface for enrollment persistence.
// Counter maintenance happens here, as atomic delta updates in the same
// transaction as the enrollment row change.
type EnrollmentRepository interface {
	// Create inserts the enrollment and increments both denormalized
	// counters, returning the course's post-increment student count.
	// A duplicate (user, course) pair fails with ErrAlreadyEnrolled.
	Create(ctx context.Context, enrollment *domain.Enrollment) (int, error)

	// Delete removes the enrollment for the (course, user) pair and
	// decrements both counters. Fails with ErrNotFound if no row matches.
	Delete(ctx context.Context, courseID, userID string) error

	// GetByUserAndCourse retrieves the enrollment for the exact pair.
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)

	// ListByUser returns all enrollments for the given user.
	ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error)

	// ListByCourse returns all enrollments for the given course.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash.
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// DeleteByHash removes the token with the given hash. Deleting an
	// absent token is a no-op, not an error.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes all refresh tokens for the given user.
	DeleteByUserID(ctx context.Context, userID string) error
}
