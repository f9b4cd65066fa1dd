package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

type projectService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newProjectService(repos *repository.Repositories, log zerolog.Logger) ProjectService {
	return &projectService{repos: repos, log: log.With().Str("service", "project").Logger()}
}

// List retrieves approved projects, featured first
func (s *projectService) List(ctx context.Context, projectType, progress string, page, limit int) ([]*models.ProjectResponse, *Meta, error) {
	page, limit = clampPage(page, limit)

	projects, total, err := s.repos.Project.List(ctx, projectType, progress, true, page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*models.ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = p.ToResponse()
	}

	meta := &Meta{Page: page, Limit: limit, Total: total}
	return responses, meta, nil
}

// Get retrieves a single project under the visibility rule
func (s *projectService) Get(ctx context.Context, projectSlug string, viewer *models.User) (*models.ProjectResponse, error) {
	project, err := s.repos.Project.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	if project == nil || !workflow.CanView(viewer, project.SubmittedBy, project.Status) {
		return nil, common.ErrNotFound
	}

	resp := project.ToResponse()
	if submitter, err := s.repos.User.GetByID(ctx, project.SubmittedBy); err == nil && submitter != nil {
		resp.Submitter = submitter.ToPublic()
	}
	return resp, nil
}

// Create runs the submission workflow for a project. Admin-capable
// submitters publish immediately; everyone else awaits approval.
func (s *projectService) Create(ctx context.Context, in *validation.ProjectInput, submitter *models.User) (*ProjectResult, error) {
	if errs := validation.ValidateProject(in); len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	projectSlug, err := s.uniqueProjectSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	startDate, _ := time.Parse("2006-01-02", in.StartDate)
	var endDate *time.Time
	if in.EndDate != "" {
		d, _ := time.Parse("2006-01-02", in.EndDate)
		endDate = &d
	}

	now := time.Now()
	project := &models.Project{
		ID:               uuid.NewString(),
		Slug:             projectSlug,
		Title:            in.Title,
		Description:      in.Description,
		ProjectType:      in.ProjectType,
		Progress:         in.Progress,
		SubmittedBy:      submitter.ID,
		GithubURL:        in.GithubURL,
		DemoURL:          in.DemoURL,
		DocumentationURL: in.DocumentationURL,
		Technologies:     in.Technologies,
		StartDate:        startDate,
		EndDate:          endDate,
		CreatedAt:        now,
	}

	outcome := workflow.SubmitProject(project, submitter, now)

	if err := s.repos.Project.Create(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("project_id", project.ID).
		Str("slug", project.Slug).
		Str("outcome", outcome.String()).
		Msg("Project submitted")

	return &ProjectResult{Project: project.ToResponse(), Outcome: outcome}, nil
}

func (s *projectService) uniqueProjectSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repos.Project.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
