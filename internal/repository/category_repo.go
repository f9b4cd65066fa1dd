package repository

import (
	"context"
	"database/sql"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// List retrieves all categories with their published-post counts
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.description, c.icon, c.color, c.created_at,
			COUNT(p.id) FILTER (WHERE p.status = $1) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := r.db.QueryContext(ctx, query, models.StatePublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CreatedAt, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetBySlug retrieves a category by slug
func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getBy(ctx, "slug = $1", slug)
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *categoryRepo) getBy(ctx context.Context, cond, arg string) (*models.Category, error) {
	query := `SELECT id, slug, name, description, icon, color, created_at FROM categories WHERE ` + cond

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Count returns the total number of categories
func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}
