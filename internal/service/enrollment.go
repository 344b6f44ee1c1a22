package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/internal/event"
	"github.com/learnhub/learnhub/internal/repository"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// EnrollmentService implements the enrollment workflow and keeps the
// denormalized student and course counters consistent with the enrollment
// rows.
type EnrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	producer       *event.Producer
	logger         *slog.Logger
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		producer:       producer,
		logger:         logger,
	}
}

// Enroll enrolls a user in a course and returns the course with its updated
// student count. The course is checked before the user so a request that is
// wrong on both sides reports the missing course.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if notFound(err) {
			return nil, apperrors.NotFound("course", courseID)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if notFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if _, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID); err == nil {
		return nil, apperrors.AlreadyEnrolled(courseID, userID)
	} else if !notFound(err) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	enrollment := &domain.Enrollment{
		ID:         uuid.New().String(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}

	// The unique constraint closes the race between the check above and the
	// insert, surfacing again as AlreadyEnrolled.
	students, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			return nil, err
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	course.NumberOfStudents = students

	if err := s.producer.PublishEnrollmentCreated(ctx, enrollment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish enrollment.created event",
			slog.String("enrollment_id", enrollment.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user enrolled",
		slog.String("user_id", userID),
		slog.String("course_id", courseID),
		slog.Int("number_of_students", students),
	)

	return course, nil
}

// Unenroll removes a user's enrollment in a course.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID string) error {
	if err := s.enrollmentRepo.Delete(ctx, courseID, userID); err != nil {
		if notFound(err) {
			return apperrors.NotFound("enrollment", fmt.Sprintf("user %s course %s", userID, courseID))
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}

	if err := s.producer.PublishEnrollmentDeleted(ctx, userID, courseID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish enrollment.deleted event",
			slog.String("user_id", userID),
			slog.String("course_id", courseID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user unenrolled",
		slog.String("user_id", userID),
		slog.String("course_id", courseID),
	)

	return nil
}

// ListByUser returns the enrollments of one user. A user with no enrollments
// is reported as not found rather than as an empty list.
func (s *EnrollmentService) ListByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments by user: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, apperrors.NotFound("enrollments for user", userID)
	}
	return enrollments, nil
}

// ListByCourse returns the enrollments of one course. A course with no
// enrollments is reported as not found rather than as an empty list.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID string) ([]domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments by course: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, apperrors.NotFound("enrollments for course", courseID)
	}
	return enrollments, nil
}
