package service

import (
	"context"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type commentService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newCommentService(repos *repository.Repositories, log zerolog.Logger) CommentService {
	return &commentService{repos: repos, log: log.With().Str("service", "comment").Logger()}
}

// visiblePublishedPost loads a post and enforces that interaction (comments,
// ratings) is limited to published content. A post the viewer may see but
// which is not yet published yields ErrNotPublished; a post they may not see
// yields ErrNotFound.
func (s *commentService) visiblePublishedPost(ctx context.Context, postSlug string, viewer *models.User) (*models.Post, error) {
	post, err := s.repos.Post.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil || !workflow.CanView(viewer, post.AuthorID, post.Status) {
		return nil, common.ErrNotFound
	}
	if post.Status != models.StatePublished {
		return nil, common.ErrNotPublished
	}
	return post, nil
}

// Add inserts a comment on a published post. Comments are not moderated;
// is_approved defaults to true and nothing ever clears it.
func (s *commentService) Add(ctx context.Context, postSlug string, in *validation.CommentInput, author *models.User) (*models.Comment, error) {
	errs := validation.ValidateComment(in)
	if len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	post, err := s.visiblePublishedPost(ctx, postSlug, author)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.repos.Comment.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, common.NewValidationError([]common.FieldError{
				{Field: "parent_id", Message: "parent comment not found on this post", Value: *in.ParentID},
			})
		}
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		PostID:     post.ID,
		ParentID:   in.ParentID,
		AuthorID:   author.ID,
		Body:       in.Body,
		IsApproved: true,
		CreatedAt:  time.Now(),
	}

	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// List returns the comment tree of a published post, top-level comments in
// posting order with replies nested beneath their parents.
func (s *commentService) List(ctx context.Context, postSlug string, viewer *models.User) ([]*models.CommentNode, error) {
	post, err := s.repos.Post.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil || !workflow.CanView(viewer, post.AuthorID, post.Status) {
		return nil, common.ErrNotFound
	}
	if post.Status != models.StatePublished {
		// Non-published posts have no comment section
		return []*models.CommentNode{}, nil
	}

	comments, err := s.repos.Comment.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return s.buildTree(ctx, comments), nil
}

func (s *commentService) buildTree(ctx context.Context, comments []*models.Comment) []*models.CommentNode {
	nodes := make(map[string]*models.CommentNode, len(comments))
	authors := make(map[string]*models.PublicUser)
	var roots []*models.CommentNode

	author := func(id string) *models.PublicUser {
		if pu, ok := authors[id]; ok {
			return pu
		}
		var pu *models.PublicUser
		if u, err := s.repos.User.GetByID(ctx, id); err == nil && u != nil {
			pu = u.ToPublic()
		}
		authors[id] = pu
		return pu
	}

	for _, c := range comments {
		nodes[c.ID] = &models.CommentNode{Comment: c, Author: author(c.AuthorID)}
	}
	// Input is ordered by created_at, so parents precede replies
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Rate records a 1-5 score for a published post, one row per (post, user);
// re-rating overwrites. Returns the updated aggregate.
func (s *commentService) Rate(ctx context.Context, postSlug string, in *validation.RatingInput, rater *models.User) (*models.RatingStats, error) {
	if errs := validation.ValidateRating(in); len(errs) > 0 {
		return nil, common.NewValidationError(errs)
	}

	post, err := s.visiblePublishedPost(ctx, postSlug, rater)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		PostID: post.ID,
		UserID: rater.ID,
		Rating: in.Rating,
	}
	if err := s.repos.Rating.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	return s.repos.Rating.Stats(ctx, post.ID)
}
