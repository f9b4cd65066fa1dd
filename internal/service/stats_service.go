package service

import (
	"context"

	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/rs/zerolog"
)

type statsService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newStatsService(repos *repository.Repositories, log zerolog.Logger) StatsService {
	return &statsService{repos: repos, log: log.With().Str("service", "stats").Logger()}
}

// Site returns the public home-page counters
func (s *statsService) Site(ctx context.Context) (*SiteStats, error) {
	posts, err := s.repos.Post.CountByStatus(ctx, models.StatePublished)
	if err != nil {
		return nil, err
	}
	projects, err := s.repos.Project.CountApproved(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Category.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &SiteStats{
		PublishedPosts:   posts,
		ApprovedProjects: projects,
		Categories:       categories,
	}, nil
}
