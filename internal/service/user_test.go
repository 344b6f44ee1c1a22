package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub/internal/domain"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

func TestUserService_Get(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "user-1").Return(&domain.User{ID: "user-1", Email: "alice@example.com"}, nil)

	user, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUserService_Get_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Get(ctx, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, newTestLogger())
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Email: "alice@example.com", Name: "Alice", Age: intPtr(30)}
	repo.On("GetByID", ctx, "user-1").Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Update(ctx, "user-1", UpdateUserInput{Name: strPtr("Alicia")})
	require.NoError(t, err)

	assert.Equal(t, "Alicia", user.Name)
	// Untouched fields survive a partial update.
	require.NotNil(t, user.Age)
	assert.Equal(t, 30, *user.Age)
	assert.Equal(t, "alice@example.com", user.Email)

	repo.AssertExpectations(t)
}

func TestUserService_Delete(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Delete", ctx, "user-1").Return(nil)

	require.NoError(t, svc.Delete(ctx, "user-1"))
	repo.AssertExpectations(t)
}

func TestUserService_List(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.User{
		{ID: "user-1"},
		{ID: "user-2"},
	}, nil)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
