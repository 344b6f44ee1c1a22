package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub/internal/auth"
	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/internal/session"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

type authFixture struct {
	svc        *AuthService
	users      *mockUserRepo
	admins     *mockAdminRepo
	tokens     *mockRefreshTokenRepo
	jwtManager *auth.JWTManager
	registry   *session.MemoryRegistry
}

func newAuthFixture() *authFixture {
	users := new(mockUserRepo)
	admins := new(mockAdminRepo)
	tokens := new(mockRefreshTokenRepo)
	manager := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour, 7*24*time.Hour)
	registry := session.NewMemoryRegistry()

	svc := NewAuthService(users, admins, tokens, manager, registry, newTestEventProducer(), newTestLogger())
	return &authFixture{
		svc:        svc,
		users:      users,
		admins:     admins,
		tokens:     tokens,
		jwtManager: manager,
		registry:   registry,
	}
}

func TestAuthService_SignUp(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	f.tokens.On("Create", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	user, pair, err := f.svc.SignUp(ctx, SignUpInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPassword",
		Age:      intPtr(30),
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, pair)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "Str0ngPassword", user.PasswordHash)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Signing up counts as signing in.
	count, err := f.registry.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	claims, err := f.jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	f.users.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@example.com"))

	_, _, err := f.svc.SignUp(ctx, SignUpInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPassword",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	count, err := f.registry.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input SignUpInput
	}{
		{"missing email", SignUpInput{Name: "Alice", Password: "Str0ngPassword"}},
		{"missing name", SignUpInput{Email: "a@b.com", Password: "Str0ngPassword"}},
		{"short password", SignUpInput{Name: "Alice", Email: "a@b.com", Password: "Ab1"}},
		{"no uppercase", SignUpInput{Name: "Alice", Email: "a@b.com", Password: "password123"}},
		{"no digit", SignUpInput{Name: "Alice", Email: "a@b.com", Password: "Passwording"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			_, _, err := f.svc.SignUp(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_SignIn(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	stored := &domain.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: hashForTest("Str0ngPassword"),
	}
	f.users.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)
	f.tokens.On("Create", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	user, pair, err := f.svc.SignIn(ctx, SignInInput{Email: "alice@example.com", Password: "Str0ngPassword"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	ids, err := f.registry.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, ids)

	f.users.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func TestAuthService_SignIn_BadCredentialsAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	unknown := newAuthFixture()
	unknown.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.NotFound("user", "ghost@example.com"))
	_, _, errUnknown := unknown.svc.SignIn(ctx, SignInInput{Email: "ghost@example.com", Password: "Str0ngPassword"})
	require.Error(t, errUnknown)

	wrongPw := newAuthFixture()
	wrongPw.users.On("GetByEmail", ctx, "alice@example.com").Return(&domain.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hashForTest("Str0ngPassword"),
	}, nil)
	_, _, errWrongPw := wrongPw.svc.SignIn(ctx, SignInInput{Email: "alice@example.com", Password: "WrongPassword1"})
	require.Error(t, errWrongPw)

	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestAuthService_AdminSignIn(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	stored := &domain.Admin{
		ID:                "admin-1",
		Email:             "root@example.com",
		Name:              "Root",
		PasswordHash:      hashForTest("Adm1nPassword"),
		HasElevatedAccess: true,
	}
	f.admins.On("GetByEmail", ctx, "root@example.com").Return(stored, nil)
	f.tokens.On("Create", ctx, "admin-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	admin, pair, err := f.svc.AdminSignIn(ctx, SignInInput{Email: "root@example.com", Password: "Adm1nPassword"})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", admin.ID)

	claims, err := f.jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	// Admin sessions are not tracked in the registry.
	count, err := f.registry.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	refreshToken, err := f.jwtManager.GenerateRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)

	f.tokens.On("GetByHash", ctx, hashToken(refreshToken)).Return(&domain.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		TokenHash: hashToken(refreshToken),
	}, nil)

	accessToken, err := f.svc.Refresh(ctx, refreshToken)
	require.NoError(t, err)

	claims, err := f.jwtManager.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	// A refreshed access token is always a regular one.
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, 15*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, "not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	refreshToken, err := f.jwtManager.GenerateRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)

	// A signed-out token is gone from storage. The failure is the same
	// InvalidToken as a bad signature.
	f.tokens.On("GetByHash", ctx, hashToken(refreshToken)).Return(nil, apperrors.ErrNotFound)

	_, err = f.svc.Refresh(ctx, refreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_SignOut(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, f.registry.Add(ctx, "user-1"))

	refreshToken, err := f.jwtManager.GenerateRefreshToken("user-1", "alice@example.com")
	require.NoError(t, err)

	f.tokens.On("DeleteByHash", ctx, hashToken(refreshToken)).Return(nil)

	require.NoError(t, f.svc.SignOut(ctx, refreshToken))

	count, err := f.registry.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Signing out again with the same token still succeeds.
	require.NoError(t, f.svc.SignOut(ctx, refreshToken))
}

func TestAuthService_SignOut_InvalidToken(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.SignOut(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.tokens.AssertNotCalled(t, "DeleteByHash", mock.Anything, mock.Anything)
}

func TestAuthService_LoggedIn(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, f.registry.Add(ctx, "user-1"))
	require.NoError(t, f.registry.Add(ctx, "user-2"))

	count, err := f.svc.LoggedInCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ids, err := f.svc.LoggedInUsers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, ids)
}
