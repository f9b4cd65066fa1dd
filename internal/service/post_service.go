package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/render"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

const similarPostLimit = 3

type postService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newPostService(repos *repository.Repositories, log zerolog.Logger) PostService {
	return &postService{repos: repos, log: log.With().Str("service", "post").Logger()}
}

// List retrieves published posts matching the filter. Listing is always a
// public read; unpublished content never appears here.
func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, *Meta, error) {
	filter.Status = models.StatePublished
	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit)

	posts, total, err := s.repos.Post.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	meta := &Meta{Page: filter.Page, Limit: filter.Limit, Total: total}
	return posts, meta, nil
}

// Get retrieves a single post, applying the visibility rule: a non-published
// post is reported as not found to anyone but its author or a moderator.
func (s *postService) Get(ctx context.Context, postSlug string, viewer *models.User) (*models.PostDetail, error) {
	post, err := s.repos.Post.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil || !workflow.CanView(viewer, post.AuthorID, post.Status) {
		return nil, common.ErrNotFound
	}

	detail := &models.PostDetail{
		Post:     post,
		BodyHTML: render.HTML(post.Body),
		CanEdit:  viewer != nil && viewer.ID == post.AuthorID,
	}

	if author, err := s.repos.User.GetByID(ctx, post.AuthorID); err == nil && author != nil {
		detail.Author = author.ToPublic()
	}
	if category, err := s.repos.Category.GetByID(ctx, post.CategoryID); err == nil && category != nil {
		detail.Category = category
	}

	if post.Status == models.StatePublished {
		// Views count only on published reads; failures don't block the read
		if err := s.repos.Post.IncrementViews(ctx, post.ID); err != nil {
			s.log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to increment views")
		} else {
			post.ViewsCount++
		}

		stats, err := s.repos.Rating.Stats(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		detail.AvgRating = stats.Average
		detail.RatingCount = stats.Count

		if viewer != nil {
			if rating, err := s.repos.Rating.Get(ctx, post.ID, viewer.ID); err == nil && rating != nil {
				detail.UserRating = &rating.Rating
			}
		}

		similar, err := s.repos.Post.ListSimilar(ctx, post.CategoryID, post.ID, similarPostLimit)
		if err != nil {
			return nil, err
		}
		detail.SimilarPosts = similar

		// Reader navigation walks published posts in creation order
		if detail.NextPost, err = s.repos.Post.NextPublished(ctx, post.CreatedAt, post.ID); err != nil {
			return nil, err
		}
		if detail.PreviousPost, err = s.repos.Post.PreviousPublished(ctx, post.CreatedAt, post.ID); err != nil {
			return nil, err
		}
	} else if post.Status == models.StatePending {
		detail.AwaitingApproval = true
	}

	return detail, nil
}

// Create runs the submission workflow: validate, build, submit, persist.
// Validation failure writes nothing. The outcome tells the caller whether the
// post went live or entered the moderation queue.
func (s *postService) Create(ctx context.Context, in *validation.PostInput, submitter *models.User) (*PostResult, error) {
	errs := validation.ValidatePost(in)
	if len(errs) == 0 {
		category, err := s.repos.Category.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			errs = append(errs, common.FieldError{Field: "category_id", Message: "unknown category", Value: in.CategoryID})
		}
	}
	if len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	postSlug, err := s.uniquePostSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:          uuid.NewString(),
		Slug:        postSlug,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Body:        in.Body,
		AuthorID:    submitter.ID,
		SubmittedBy: submitter.ID,
		CategoryID:  in.CategoryID,
		Tags:        in.Tags,
		Difficulty:  in.Difficulty,
		Status:      models.StateDraft, // schema default, replaced by Submit
		Version:     1,
		ReadingTime: models.EstimateReadingTime(in.Body),
		CreatedAt:   now,
	}

	outcome := workflow.SubmitPost(post, submitter, now)

	if err := s.repos.Post.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("post_id", post.ID).
		Str("slug", post.Slug).
		Str("outcome", outcome.String()).
		Msg("Post submitted")

	return &PostResult{Post: post, Outcome: outcome}, nil
}

// Update applies an edit. Only the authoring user may edit; anyone else gets
// not-found so the existence of another user's draft never leaks. Published
// posts stay published and gain a version.
func (s *postService) Update(ctx context.Context, postSlug string, in *validation.PostInput, editor *models.User) (*PostResult, error) {
	post, err := s.repos.Post.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil || editor == nil || post.AuthorID != editor.ID {
		return nil, common.ErrNotFound
	}

	errs := validation.ValidatePost(in)
	if len(errs) == 0 && in.CategoryID != post.CategoryID {
		category, err := s.repos.Category.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			errs = append(errs, common.FieldError{Field: "category_id", Message: "unknown category", Value: in.CategoryID})
		}
	}
	if len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	// Slug is immutable; content fields are replaced wholesale
	post.Title = in.Title
	post.Excerpt = in.Excerpt
	post.Body = in.Body
	post.CategoryID = in.CategoryID
	post.Tags = in.Tags
	post.Difficulty = in.Difficulty
	post.ReadingTime = models.EstimateReadingTime(in.Body)

	outcome := workflow.EditPost(post)

	if err := s.repos.Post.UpdateContent(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("post_id", post.ID).
		Int("version", post.Version).
		Str("outcome", outcome.String()).
		Msg("Post edited")

	return &PostResult{Post: post, Outcome: outcome}, nil
}

// PopularTags returns the most used tags over published posts
func (s *postService) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.repos.Post.PopularTags(ctx, limit)
}

// uniquePostSlug derives a slug from the title, suffixing on collision
func (s *postService) uniquePostSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repos.Post.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
