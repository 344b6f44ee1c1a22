package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/internal/repository"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// CourseService implements the course catalog operations.
type CourseService struct {
	courseRepo repository.CourseRepository
	logger     *slog.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo repository.CourseRepository, logger *slog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// CreateCourseInput holds the parameters for creating a course.
type CreateCourseInput struct {
	Title       string
	Description string
	IsActive    bool
}

// UpdateCourseInput holds the updatable course fields. Nil fields are left
// unchanged. The student counter is never writable through updates.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	IsActive    *bool
}

// Create adds a new course to the catalog.
func (s *CourseService) Create(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	now := time.Now().UTC()
	course := &domain.Course{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.InfoContext(ctx, "course created",
		slog.String("course_id", course.ID),
		slog.String("title", course.Title),
	)

	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Update applies the non-nil fields of input to the course.
func (s *CourseService) Update(ctx context.Context, id string, input UpdateCourseInput) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("title cannot be empty")
		}
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}
	course.UpdatedAt = time.Now().UTC()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	s.logger.InfoContext(ctx, "course updated",
		slog.String("course_id", course.ID),
	)

	return course, nil
}

// Delete removes a course. Storage takes care of the course's enrollments
// and the affected user counters in one transaction.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.logger.InfoContext(ctx, "course deleted",
		slog.String("course_id", id),
	)

	return nil
}
