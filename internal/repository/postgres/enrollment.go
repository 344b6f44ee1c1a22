package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/pkg/database"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// EnrollmentRepository implements repository.EnrollmentRepository using
// PostgreSQL. Denormalized counters are maintained by single-statement delta
// updates (counter = counter + delta) inside the row-change transaction, so
// concurrent enrolls into the same course never lose an increment.
type EnrollmentRepository struct {
	pool database.DBTX
}

// NewEnrollmentRepository creates a new PostgreSQL-backed enrollment repository.
func NewEnrollmentRepository(pool database.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts the enrollment and increments both counters, returning the
// course's post-increment student count. The UNIQUE (user_id, course_id)
// constraint turns a concurrent duplicate insert into ErrAlreadyEnrolled
// instead of a silent double-enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, enrolled_at) VALUES ($1, $2, $3, $4)`,
		e.ID, e.UserID, e.CourseID, e.EnrolledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.AlreadyEnrolled(e.CourseID, e.UserID)
		}
		return 0, fmt.Errorf("insert enrollment: %w", err)
	}

	var students int
	err = tx.QueryRow(ctx,
		`UPDATE courses SET number_of_students = number_of_students + 1 WHERE id = $1 RETURNING number_of_students`,
		e.CourseID,
	).Scan(&students)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("course", e.CourseID)
		}
		return 0, fmt.Errorf("increment course counter: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`UPDATE users SET number_of_enrolled_courses = number_of_enrolled_courses + 1 WHERE id = $1`,
		e.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("increment user counter: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, apperrors.NotFound("user", e.UserID)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return students, nil
}

// Delete removes the enrollment for the (course, user) pair and decrements
// both counters. Fails with ErrNotFound when no row matches.
func (r *EnrollmentRepository) Delete(ctx context.Context, courseID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`DELETE FROM enrollments WHERE course_id = $1 AND user_id = $2`,
		courseID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE courses SET number_of_students = number_of_students - 1 WHERE id = $1`,
		courseID,
	)
	if err != nil {
		return fmt.Errorf("decrement course counter: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET number_of_enrolled_courses = number_of_enrolled_courses - 1 WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("decrement user counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByUserAndCourse retrieves the enrollment for the exact (user, course) pair.
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2`

	var e domain.Enrollment
	err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(
		&e.ID,
		&e.UserID,
		&e.CourseID,
		&e.EnrolledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan enrollment: %w", err)
	}

	return &e, nil
}

// ListByUser returns all enrollments for the given user.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at`

	return r.list(ctx, query, userID)
}

// ListByCourse returns all enrollments for the given course.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE course_id = $1
		ORDER BY enrolled_at`

	return r.list(ctx, query, courseID)
}

func (r *EnrollmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("scan enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollment rows: %w", err)
	}

	return enrollments, nil
}
