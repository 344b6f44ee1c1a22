package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/pkg/database"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// CourseRepository implements repository.CourseRepository using PostgreSQL.
type CourseRepository struct {
	pool database.DBTX
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(pool database.DBTX) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course into the database.
func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	query := `
		INSERT INTO courses (id, title, description, is_active, number_of_students, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.IsActive,
		c.NumberOfStudents,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("course", "title", c.Title)
		}
		return fmt.Errorf("insert course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, title, description, is_active, number_of_students, created_at, updated_at
		FROM courses
		WHERE id = $1`

	var c domain.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.IsActive,
		&c.NumberOfStudents,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}

	return &c, nil
}

// List returns all courses ordered by creation time.
func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	query := `
		SELECT id, title, description, is_active, number_of_students, created_at, updated_at
		FROM courses
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.IsActive,
			&c.NumberOfStudents,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}

	if courses == nil {
		courses = []domain.Course{}
	}

	return courses, nil
}

// Update modifies an existing course in the database. The student counter is
// never written here: it moves only through enrollment delta updates.
func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE courses
		SET title = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query,
		c.Title,
		c.Description,
		c.IsActive,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("course", "title", c.Title)
		}
		return fmt.Errorf("update course: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("course", c.ID)
	}

	return nil
}

// Delete removes a course. Its enrollments cascade through the schema; the
// enrolled-course counter of every affected user is decremented in the same
// transaction.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET number_of_enrolled_courses = number_of_enrolled_courses - 1
		 WHERE id IN (SELECT user_id FROM enrollments WHERE course_id = $1)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("decrement user counters: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("course", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
