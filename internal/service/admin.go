package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/internal/repository"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// AdminService manages admin accounts. Every operation is gated on the
// shared admin secret so admin management never rides on user credentials.
type AdminService struct {
	adminRepo   repository.AdminRepository
	adminSecret string
	logger      *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(adminRepo repository.AdminRepository, adminSecret string, logger *slog.Logger) *AdminService {
	return &AdminService{
		adminRepo:   adminRepo,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// CreateAdminInput holds the parameters for registering a new admin.
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

// Create registers a new admin account.
func (s *AdminService) Create(ctx context.Context, secret string, input CreateAdminInput) (*domain.Admin, error) {
	if err := s.checkSecret(secret); err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Admin{
		ID:                uuid.New().String(),
		Email:             input.Email,
		Name:              input.Name,
		Age:               input.Age,
		PasswordHash:      string(hashedPassword),
		HasElevatedAccess: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin created",
		slog.String("admin_id", admin.ID),
		slog.String("email", admin.Email),
	)

	return admin, nil
}

// Get returns an admin by id.
func (s *AdminService) Get(ctx context.Context, secret, id string) (*domain.Admin, error) {
	if err := s.checkSecret(secret); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// List returns all admins.
func (s *AdminService) List(ctx context.Context, secret string) ([]domain.Admin, error) {
	if err := s.checkSecret(secret); err != nil {
		return nil, err
	}

	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// Delete removes an admin account.
func (s *AdminService) Delete(ctx context.Context, secret, id string) error {
	if err := s.checkSecret(secret); err != nil {
		return err
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin deleted",
		slog.String("admin_id", id),
	)

	return nil
}

func (s *AdminService) checkSecret(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		return apperrors.Forbidden("invalid admin secret")
	}
	return nil
}
