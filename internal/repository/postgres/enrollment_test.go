package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub/internal/domain"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

func newEnrollmentTestFixture(t *testing.T) (*EnrollmentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewEnrollmentRepository(mock)
	return repo, mock
}

func sampleEnrollment() *domain.Enrollment {
	return &domain.Enrollment{
		ID:         "e-1",
		UserID:     "u-1",
		CourseID:   "c-1",
		EnrolledAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestEnrollmentRepository_Create_Success(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	e := sampleEnrollment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(e.ID, e.UserID, e.CourseID, e.EnrolledAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("UPDATE courses SET number_of_students = number_of_students \\+ 1").
		WithArgs(e.CourseID).
		WillReturnRows(pgxmock.NewRows([]string{"number_of_students"}).AddRow(5))
	mock.ExpectExec("UPDATE users SET number_of_enrolled_courses = number_of_enrolled_courses \\+ 1").
		WithArgs(e.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	students, err := repo.Create(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, 5, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Create_DuplicatePair(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	e := sampleEnrollment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(e.ID, e.UserID, e.CourseID, e.EnrolledAt).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint \"enrollments_user_course_unique\" (SQLSTATE 23505)"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyEnrolled), "expected ErrAlreadyEnrolled, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Create_CourseGone(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	e := sampleEnrollment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(e.ID, e.UserID, e.CourseID, e.EnrolledAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("UPDATE courses SET number_of_students = number_of_students \\+ 1").
		WithArgs(e.CourseID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestEnrollmentRepository_Delete_Success(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM enrollments WHERE course_id =").
		WithArgs("c-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE courses SET number_of_students = number_of_students - 1").
		WithArgs("c-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET number_of_enrolled_courses = number_of_enrolled_courses - 1").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "c-1", "u-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Delete_NotEnrolled(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM enrollments WHERE course_id =").
		WithArgs("c-1", "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "c-1", "u-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestEnrollmentRepository_GetByUserAndCourse_Success(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	e := sampleEnrollment()
	rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "enrolled_at"}).
		AddRow(e.ID, e.UserID, e.CourseID, e.EnrolledAt)

	mock.ExpectQuery("SELECT .+ FROM enrollments\\s+WHERE user_id = .+ AND course_id =").
		WithArgs(e.UserID, e.CourseID).
		WillReturnRows(rows)

	got, err := repo.GetByUserAndCourse(context.Background(), e.UserID, e.CourseID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_GetByUserAndCourse_NotFound(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM enrollments\\s+WHERE user_id = .+ AND course_id =").
		WithArgs("u-1", "c-1").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByUserAndCourse(context.Background(), "u-1", "c-1")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListByUser(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "enrolled_at"}).
		AddRow("e-1", "u-1", "c-1", now).
		AddRow("e-2", "u-1", "c-2", now)

	mock.ExpectQuery("SELECT .+ FROM enrollments\\s+WHERE user_id =").
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-2", got[1].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListByCourse_Empty(t *testing.T) {
	repo, mock := newEnrollmentTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM enrollments\\s+WHERE course_id =").
		WithArgs("c-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "course_id", "enrolled_at"}))

	got, err := repo.ListByCourse(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
