package service

import (
	"context"
	"testing"

	"notebook-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newMockUserRepository()
	repo.users["u1"] = &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h1"}
	repo.users["u2"] = &domain.User{ID: "u2", Name: "Grace", Email: "grace@example.com", PasswordHash: "h2"}
	svc := NewUserService(repo)
	ctx := context.Background()

	name := "Ada Lovelace"
	user, err := svc.UpdateProfile(ctx, "u1", domain.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "h1", repo.users["u1"].PasswordHash)

	taken := "grace@example.com"
	_, err = svc.UpdateProfile(ctx, "u1", domain.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	own := "ada@example.com"
	_, err = svc.UpdateProfile(ctx, "u1", domain.UserUpdate{Email: &own})
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, "missing", domain.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	user, err = svc.UpdateProfile(ctx, "u2", domain.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
}

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepository()
	repo.users["u1"] = &domain.User{ID: "u1", Name: "Ada"}
	svc := NewUserService(repo)

	user, err := svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
