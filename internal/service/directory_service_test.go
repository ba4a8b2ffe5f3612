package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

func TestDirectoryService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCategory(t, h.store, "Access", "access")
	dir := NewDirectoryService(h.store.Categories, h.store.Users)

	categories, err := dir.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "access", categories[0].Slug)
	assert.Equal(t, "billing", categories[1].Slug)

	agents, err := dir.ListAgents(ctx, h.admin)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "adam", agents[0].Name)
	assert.Equal(t, "zoe", agents[1].Name)

	_, err = dir.ListAgents(ctx, h.agent)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAccessDenied))
}
