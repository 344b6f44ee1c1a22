package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/learnhub/internal/auth"
	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/internal/event"
	"github.com/learnhub/learnhub/internal/repository"
	"github.com/learnhub/learnhub/internal/session"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements the sign-up / sign-in / refresh / sign-out workflow
// and the logged-in-user projections over the session registry.
type AuthService struct {
	userRepo         repository.UserRepository
	adminRepo        repository.AdminRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtManager       *auth.JWTManager
	registry         session.Registry
	producer         *event.Producer
	logger           *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	registry session.Registry,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		adminRepo:        adminRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtManager:       jwtManager,
		registry:         registry,
		producer:         producer,
		logger:           logger,
	}
}

// SignUpInput holds the parameters for registering a new user.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
}

// SignInInput holds the parameters for signing in.
type SignInInput struct {
	Email    string
	Password string
}

// SignUp creates a new user account, issues tokens, and marks the user as
// signed in. A duplicate email fails with AlreadyExists.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Name == "" {
		return nil, nil, apperrors.InvalidInput("name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Name:         input.Name,
		Age:          input.Age,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user.ID, user.Email, false)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.registry.Add(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark user signed in",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// SignIn authenticates a user with email and password. Unknown email and
// wrong password fail identically so callers cannot probe for accounts.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	tokens, err := s.generateTokenPair(ctx, user.ID, user.Email, false)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.registry.Add(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark user signed in",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user signed in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// AdminSignIn authenticates an admin. The access token carries the admin
// claim and the longer admin lifetime. Admins are not tracked in the session
// registry.
func (s *AuthService) AdminSignIn(ctx context.Context, input SignInInput) (*domain.Admin, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	tokens, err := s.generateTokenPair(ctx, admin.ID, admin.Email, true)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "admin signed in",
		slog.String("admin_id", admin.ID),
		slog.String("email", admin.Email),
	)

	return admin, tokens, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token is not rotated. Expiry, bad signature, and a deleted stored token all
// collapse into the same InvalidToken failure.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.InvalidToken()
	}

	// Stored row existence is authoritative for exchange.
	if _, err := s.refreshTokenRepo.GetByHash(ctx, hashToken(refreshToken)); err != nil {
		return "", apperrors.InvalidToken()
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.String("user_id", claims.UserID),
	)

	return accessToken, nil
}

// SignOut removes the subject from the session registry and deletes the
// stored refresh token. A missing stored token is folded into success, so
// repeating a sign-out is harmless.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.InvalidInput("invalid refresh token")
	}

	if err := s.registry.Remove(ctx, claims.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark user signed out",
			slog.String("user_id", claims.UserID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.refreshTokenRepo.DeleteByHash(ctx, hashToken(refreshToken)); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed out",
		slog.String("user_id", claims.UserID),
	)

	return nil
}

// LoggedInCount returns the number of currently signed-in users.
func (s *AuthService) LoggedInCount(ctx context.Context) (int, error) {
	count, err := s.registry.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// LoggedInUsers returns a snapshot of the signed-in user ids.
func (s *AuthService) LoggedInUsers(ctx context.Context) ([]string, error) {
	ids, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

// --- Helpers ---

// generateTokenPair creates an access/refresh token pair and stores the
// refresh token hash.
func (s *AuthService) generateTokenPair(ctx context.Context, subjectID, email string, isAdmin bool) (*domain.TokenPair, error) {
	var accessToken string
	var err error
	if isAdmin {
		accessToken, err = s.jwtManager.GenerateAdminAccessToken(subjectID, email)
	} else {
		accessToken, err = s.jwtManager.GenerateAccessToken(subjectID, email)
	}
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(subjectID, email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshClaims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("validate refresh token for expiry: %w", err)
	}

	if err := s.refreshTokenRepo.Create(ctx, subjectID, hashToken(refreshToken), refreshClaims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashToken returns the SHA256 hex digest of the given token string.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}

// notFound reports whether the error is the storage-level missing-row sentinel.
func notFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
