package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtully/wayfarer/backend/internal/domain"
	"github.com/jtully/wayfarer/backend/internal/repo"
)

func TestUserRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	got, err := r.Create(ctx, "alice-"+uuid.NewString(), "$2a$10$hash")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	username := "bob-" + uuid.NewString()

	_, err := r.Create(ctx, username, "$2a$10$hash")
	require.NoError(t, err)

	_, err = r.Create(ctx, username, "$2a$10$otherhash")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	username := "carol-" + uuid.NewString()
	created, err := r.Create(ctx, username, "$2a$10$hash")
	require.NoError(t, err)

	got, err := r.GetByUsername(ctx, username)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, username, got.Username)
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	_, err := r.GetByUsername(ctx, "nobody-"+uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
