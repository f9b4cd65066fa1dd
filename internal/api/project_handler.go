package api

import (
	"net/http"

	"github.com/blog-showcase-api/internal/service"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(services *service.Services, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		services: services,
		log:      log.With().Str("handler", "project").Logger(),
	}
}

// List handles GET /v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, meta, err := h.services.Project.List(
		c.Request.Context(),
		c.Query("type"),
		c.Query("progress"),
		intQuery(c, "page", 1),
		intQuery(c, "limit", 20),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "meta": meta})
}

// Get handles GET /v1/projects/:slug
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.services.Project.Get(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var in validation.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := h.services.Project.Create(c.Request.Context(), &in, currentUser(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"project": result.Project,
		"message": outcomeMessage(result.Outcome),
	})
}
