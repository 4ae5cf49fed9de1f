package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	created, err := repo.Create(ctx, &model.Profile{
		ID:    id,
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.NotZero(t, created.CreatedAt)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, model.RoleAdmin, got.Role)
}

func TestProfileRepository_Get_NotFound(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewProfileRepository(db)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewProfileRepository(db)
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		role := model.RoleUser
		if i == 0 {
			role = model.RoleSuperadmin
		}
		_, err := repo.Create(ctx, &model.Profile{
			ID:    uuid.New(),
			Name:  email,
			Email: email,
			Role:  role,
		})
		require.NoError(t, err)
	}

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)
}

func TestProfileRepository_UpdateRole(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	_, err := repo.Create(ctx, &model.Profile{
		ID:    id,
		Name:  "Bob",
		Email: "bob@example.com",
		Role:  model.RoleUser,
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRole(ctx, id, model.RoleAdmin))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	err = repo.UpdateRole(ctx, uuid.New(), model.RoleAdmin)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	_, err := repo.Create(ctx, &model.Profile{
		ID:    id,
		Name:  "Carol",
		Email: "carol@example.com",
		Role:  model.RoleUser,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	err = repo.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
