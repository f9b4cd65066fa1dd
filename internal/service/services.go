package service

import (
	"context"

	"github.com/blog-showcase-api/internal/config"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/rs/zerolog"
)

// AuthService defines the interface for account operations
type AuthService interface {
	Register(ctx context.Context, in *validation.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, in *validation.LoginInput) (*models.User, string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, in *validation.ProfileInput) (*models.User, error)
}

// PostService defines the interface for post submission and reading
type PostService interface {
	List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, *Meta, error)
	Get(ctx context.Context, slug string, viewer *models.User) (*models.PostDetail, error)
	Create(ctx context.Context, in *validation.PostInput, submitter *models.User) (*PostResult, error)
	Update(ctx context.Context, slug string, in *validation.PostInput, editor *models.User) (*PostResult, error)
	PopularTags(ctx context.Context, limit int) ([]models.TagCount, error)
}

// ProjectService defines the interface for project submission and reading
type ProjectService interface {
	List(ctx context.Context, projectType, progress string, page, limit int) ([]*models.ProjectResponse, *Meta, error)
	Get(ctx context.Context, slug string, viewer *models.User) (*models.ProjectResponse, error)
	Create(ctx context.Context, in *validation.ProjectInput, submitter *models.User) (*ProjectResult, error)
}

// CommentService defines the interface for comments and ratings
type CommentService interface {
	Add(ctx context.Context, postSlug string, in *validation.CommentInput, author *models.User) (*models.Comment, error)
	List(ctx context.Context, postSlug string, viewer *models.User) ([]*models.CommentNode, error)
	Rate(ctx context.Context, postSlug string, in *validation.RatingInput, rater *models.User) (*models.RatingStats, error)
}

// ModerationService defines the interface for the moderation queue
type ModerationService interface {
	Queue(ctx context.Context) (*ModerationQueue, error)
	ApprovePost(ctx context.Context, slug string) (*PostResult, error)
	ApproveProject(ctx context.Context, slug string) (*ProjectResult, error)
}

// StatsService defines the interface for site-wide counters
type StatsService interface {
	Site(ctx context.Context) (*SiteStats, error)
}

// BrowseService defines the interface for public discovery reads
type BrowseService interface {
	Categories(ctx context.Context) ([]*models.Category, error)
	Category(ctx context.Context, slug string) (*models.Category, error)
}

// Meta carries pagination metadata on list responses
type Meta struct {
	Page  int   `json:"page,omitempty"`
	Limit int   `json:"limit,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// PostResult pairs a post with the workflow outcome that produced it, so
// callers can distinguish "created and published" from "awaiting approval"
// and "already published".
type PostResult struct {
	Post    *models.Post     `json:"post"`
	Outcome workflow.Outcome `json:"-"`
}

// ProjectResult is the project-side equivalent of PostResult
type ProjectResult struct {
	Project *models.ProjectResponse `json:"project"`
	Outcome workflow.Outcome        `json:"-"`
}

// ModerationQueue is the pending content snapshot for the admin dashboard
type ModerationQueue struct {
	PendingPosts        []*models.Post            `json:"pending_posts"`
	PendingProjects     []*models.ProjectResponse `json:"pending_projects"`
	PendingPostCount    int                       `json:"pending_posts_count"`
	PendingProjectCount int                       `json:"pending_projects_count"`
	TotalPending        int                       `json:"total_pending"`
}

// SiteStats is the public counters payload
type SiteStats struct {
	PublishedPosts   int `json:"published_posts"`
	ApprovedProjects int `json:"approved_projects"`
	Categories       int `json:"categories"`
}

// Services holds all service interfaces
type Services struct {
	Auth       AuthService
	Post       PostService
	Project    ProjectService
	Comment    CommentService
	Moderation ModerationService
	Stats      StatsService
	Browse     BrowseService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, tokens *token.Manager, log zerolog.Logger) *Services {
	return &Services{
		Auth:       newAuthService(repos.User, tokens, cfg.Auth.BcryptCost, log),
		Post:       newPostService(repos, log),
		Project:    newProjectService(repos, log),
		Comment:    newCommentService(repos, log),
		Moderation: newModerationService(repos, log),
		Stats:      newStatsService(repos, log),
		Browse:     newBrowseService(repos, log),
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
