package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

func TestUserRepository_EmailIsUnique(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	seedUser(t, db, "carol", domain.RoleCustomer)

	got, err := repo.GetByEmail(ctx, "  CAROL@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Name)
	assert.Equal(t, domain.RoleCustomer, got.Role)
	assert.True(t, got.IsActive)

	err = repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         "impostor",
		Email:        "carol@example.com",
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	var dupErr *repository.DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "users.email", dupErr.Constraint)
}

func TestUserRepository_ListActiveAgents(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	seedUser(t, db, "zoe", domain.RoleAgent)
	seedUser(t, db, "adam", domain.RoleAgent)
	seedUser(t, db, "carol", domain.RoleCustomer)
	retired := seedUser(t, db, "bob", domain.RoleAgent)
	retired.IsActive = false
	require.NoError(t, repo.Update(ctx, retired))

	role := domain.RoleAgent
	active := true
	agents, err := repo.List(ctx, repository.UserFilter{Role: &role, Active: &active})
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "adam", agents[0].Name)
	assert.Equal(t, "zoe", agents[1].Name)

	err = repo.Update(ctx, &domain.User{ID: "missing", Role: domain.RoleAgent})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCategoryRepository_GetBySlug(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	seedCategory(t, db, "technical")
	seedCategory(t, db, "billing")

	got, err := repo.GetBySlug(ctx, " Billing ")
	require.NoError(t, err)
	assert.Equal(t, "billing", got.Slug)

	_, err = repo.GetBySlug(ctx, "unknown")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "billing", all[0].Slug)
}
