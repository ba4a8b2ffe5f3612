package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// CategoryRepository implements repository.CategoryRepository for SQLite
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)
	return translateError(err)
}

// GetBySlug resolves a category by its lowercase slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM categories
		WHERE slug = ?
	`
	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(slug))).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// List returns all categories sorted by name
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
