package service

import (
	"context"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// DirectoryService answers lookups of categories and staff.
type DirectoryService struct {
	categories repository.CategoryRepository
	users      repository.UserRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(categories repository.CategoryRepository, users repository.UserRepository) *DirectoryService {
	return &DirectoryService{categories: categories, users: users}
}

// ListCategories returns every category sorted by name.
func (s *DirectoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}

// ListAgents returns the active agents sorted by name. Admin only.
func (s *DirectoryService) ListAgents(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewAccessDenied("only admins can list agents")
	}
	role := domain.RoleAgent
	active := true
	agents, err := s.users.List(ctx, repository.UserFilter{Role: &role, Active: &active, Limit: 100})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return agents, nil
}
