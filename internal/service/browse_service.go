package service

import (
	"context"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/rs/zerolog"
)

type browseService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newBrowseService(repos *repository.Repositories, log zerolog.Logger) BrowseService {
	return &browseService{repos: repos, log: log.With().Str("service", "browse").Logger()}
}

// Categories returns all categories with their published post counts
func (s *browseService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.repos.Category.List(ctx)
}

// Category returns a single category by slug
func (s *browseService) Category(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repos.Category.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrNotFound
	}
	return category, nil
}
