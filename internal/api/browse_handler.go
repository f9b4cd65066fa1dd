package api

import (
	"net/http"
	"strings"

	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BrowseHandler handles the public discovery endpoints: categories, tags,
// search and site stats.
type BrowseHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBrowseHandler creates a new BrowseHandler
func NewBrowseHandler(services *service.Services, log zerolog.Logger) *BrowseHandler {
	return &BrowseHandler{
		services: services,
		log:      log.With().Str("handler", "browse").Logger(),
	}
}

// ListCategories handles GET /v1/categories
func (h *BrowseHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Browse.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CategoryPosts handles GET /v1/categories/:slug/posts
func (h *BrowseHandler) CategoryPosts(c *gin.Context) {
	category, err := h.services.Browse.Category(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	filter := repository.PostFilter{
		CategorySlug: category.Slug,
		Page:         intQuery(c, "page", 1),
		Limit:        intQuery(c, "limit", 20),
	}

	posts, meta, err := h.services.Post.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "posts": posts, "meta": meta})
}

// PopularTags handles GET /v1/tags
func (h *BrowseHandler) PopularTags(c *gin.Context) {
	tags, err := h.services.Post.PopularTags(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Search handles GET /v1/search. Search only ever surfaces published posts.
func (h *BrowseHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	filter := repository.PostFilter{
		Search: query,
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}

	posts, meta, err := h.services.Post.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "meta": meta, "query": query})
}

// SiteStats handles GET /v1/stats
func (h *BrowseHandler) SiteStats(c *gin.Context) {
	stats, err := h.services.Stats.Site(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
