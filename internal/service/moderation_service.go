package service

import (
	"context"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/rs/zerolog"
)

type moderationService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newModerationService(repos *repository.Repositories, log zerolog.Logger) ModerationService {
	return &moderationService{repos: repos, log: log.With().Str("service", "moderation").Logger()}
}

// Queue returns all content awaiting approval plus the dashboard counts.
// The full set is returned; a moderation queue does not need pagination.
func (s *moderationService) Queue(ctx context.Context) (*ModerationQueue, error) {
	posts, err := s.repos.Post.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.repos.Project.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	projectResponses := make([]*models.ProjectResponse, len(projects))
	for i, p := range projects {
		projectResponses[i] = p.ToResponse()
	}

	queue := &ModerationQueue{
		PendingPosts:        posts,
		PendingProjects:     projectResponses,
		PendingPostCount:    len(posts),
		PendingProjectCount: len(projectResponses),
	}
	queue.TotalPending = queue.PendingPostCount + queue.PendingProjectCount
	return queue, nil
}

// ApprovePost publishes a pending post. The state machine decides the
// transition; persistence is one guarded UPDATE, so two racing approvals
// produce one mutation and one benign already-published outcome, with the
// first timestamp preserved.
func (s *moderationService) ApprovePost(ctx context.Context, slug string) (*PostResult, error) {
	post, err := s.repos.Post.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, common.ErrNotFound
	}

	outcome := workflow.ApprovePost(post, time.Now())
	if outcome == workflow.OutcomeApproved {
		moved, err := s.repos.Post.Publish(ctx, post.ID, *post.PublishedAt)
		if err != nil {
			return nil, err
		}
		if !moved {
			// Lost the race against a concurrent approval
			outcome = workflow.OutcomeAlreadyPublished
			if fresh, err := s.repos.Post.GetBySlug(ctx, slug); err == nil && fresh != nil {
				post = fresh
			}
		}
	}

	s.log.Info().
		Str("post_id", post.ID).
		Str("outcome", outcome.String()).
		Msg("Post approval processed")

	return &PostResult{Post: post, Outcome: outcome}, nil
}

// ApproveProject approves a pending project under the same atomicity contract
func (s *moderationService) ApproveProject(ctx context.Context, slug string) (*ProjectResult, error) {
	project, err := s.repos.Project.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, common.ErrNotFound
	}

	outcome := workflow.ApproveProject(project, time.Now())
	if outcome == workflow.OutcomeApproved {
		moved, err := s.repos.Project.Approve(ctx, project.ID, *project.PublishedAt)
		if err != nil {
			return nil, err
		}
		if !moved {
			outcome = workflow.OutcomeAlreadyPublished
			if fresh, err := s.repos.Project.GetBySlug(ctx, slug); err == nil && fresh != nil {
				project = fresh
			}
		}
	}

	s.log.Info().
		Str("project_id", project.ID).
		Str("outcome", outcome.String()).
		Msg("Project approval processed")

	return &ProjectResult{Project: project.ToResponse(), Outcome: outcome}, nil
}
