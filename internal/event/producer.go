package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/learnhub/learnhub/internal/domain"
	pkgkafka "github.com/learnhub/learnhub/pkg/kafka"
)

// Kafka topics for platform domain events.
var (
	TopicUserRegistered    = pkgkafka.Topic("user", "registered")
	TopicEnrollmentCreated = pkgkafka.Topic("enrollment", "created")
	TopicEnrollmentDeleted = pkgkafka.Topic("enrollment", "deleted")
)

// Aggregate type constants.
const (
	AggregateTypeUser       = "user"
	AggregateTypeEnrollment = "enrollment"
)

// Source identifier for events originating from this service.
const Source = "learnhub"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EnrollmentData is the payload for enrollment.created and enrollment.deleted events.
type EnrollmentData struct {
	EnrollmentID string `json:"enrollment_id,omitempty"`
	UserID       string `json:"user_id"`
	CourseID     string `json:"course_id"`
}

// Producer publishes platform domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishEnrollmentCreated publishes an enrollment.created event.
func (p *Producer) PublishEnrollmentCreated(ctx context.Context, enrollment *domain.Enrollment) error {
	data := EnrollmentData{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
	}

	event, err := pkgkafka.NewEvent(TopicEnrollmentCreated, enrollment.ID, AggregateTypeEnrollment, Source, data)
	if err != nil {
		return fmt.Errorf("create enrollment.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicEnrollmentCreated, event); err != nil {
		return fmt.Errorf("publish enrollment.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published enrollment.created event",
		slog.String("user_id", enrollment.UserID),
		slog.String("course_id", enrollment.CourseID),
	)

	return nil
}

// PublishEnrollmentDeleted publishes an enrollment.deleted event.
func (p *Producer) PublishEnrollmentDeleted(ctx context.Context, userID, courseID string) error {
	data := EnrollmentData{
		UserID:   userID,
		CourseID: courseID,
	}

	event, err := pkgkafka.NewEvent(TopicEnrollmentDeleted, userID, AggregateTypeEnrollment, Source, data)
	if err != nil {
		return fmt.Errorf("create enrollment.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicEnrollmentDeleted, event); err != nil {
		return fmt.Errorf("publish enrollment.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published enrollment.deleted event",
		slog.String("user_id", userID),
		slog.String("course_id", courseID),
	)

	return nil
}
