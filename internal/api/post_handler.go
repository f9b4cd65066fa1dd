package api

import (
	"net/http"
	"strconv"

	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/service"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostHandler handles post, comment and rating endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// List handles GET /v1/posts
func (h *PostHandler) List(c *gin.Context) {
	filter := repository.PostFilter{
		CategorySlug: c.Query("category"),
		Tag:          c.Query("tag"),
		Difficulty:   c.Query("difficulty"),
		Page:         intQuery(c, "page", 1),
		Limit:        intQuery(c, "limit", 20),
	}

	posts, meta, err := h.services.Post.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "meta": meta})
}

// Get handles GET /v1/posts/:slug
func (h *PostHandler) Get(c *gin.Context) {
	detail, err := h.services.Post.Get(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Create handles POST /v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	var in validation.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := h.services.Post.Create(c.Request.Context(), &in, currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":    result.Post,
		"message": outcomeMessage(result.Outcome),
	})
}

// Update handles PUT /v1/posts/:slug
func (h *PostHandler) Update(c *gin.Context) {
	var in validation.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := h.services.Post.Update(c.Request.Context(), c.Param("slug"), &in, currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    result.Post,
		"message": outcomeMessage(result.Outcome),
	})
}

// ListComments handles GET /v1/posts/:slug/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Comment.List(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment handles POST /v1/posts/:slug/comments
func (h *PostHandler) AddComment(c *gin.Context) {
	var in validation.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	comment, err := h.services.Comment.Add(c.Request.Context(), c.Param("slug"), &in, currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Rate handles POST /v1/posts/:slug/ratings
func (h *PostHandler) Rate(c *gin.Context) {
	var in validation.RatingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	stats, err := h.services.Comment.Rate(c.Request.Context(), c.Param("slug"), &in, currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": stats})
}

// outcomeMessage translates a workflow outcome into the user-facing notice
func outcomeMessage(o workflow.Outcome) string {
	switch o {
	case workflow.OutcomeSubmitted:
		return "submitted and awaiting approval"
	case workflow.OutcomePublished:
		return "published"
	case workflow.OutcomeApproved:
		return "approved and published"
	case workflow.OutcomeAlreadyPublished:
		return "already published, nothing changed"
	case workflow.OutcomeStillDraft:
		return "still a draft, approval does not apply"
	case workflow.OutcomeVersioned:
		return "updated, version incremented"
	case workflow.OutcomeEdited:
		return "updated"
	}
	return ""
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
