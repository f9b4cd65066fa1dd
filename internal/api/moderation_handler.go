package api

import (
	"net/http"

	"github.com/blog-showcase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ModerationHandler handles the approval queue endpoints
type ModerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		services: services,
		log:      log.With().Str("handler", "moderation").Logger(),
	}
}

// Queue handles GET /v1/moderation/queue
func (h *ModerationHandler) Queue(c *gin.Context) {
	queue, err := h.services.Moderation.Queue(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, queue)
}

// ApprovePost handles POST /v1/moderation/posts/:slug/approve
func (h *ModerationHandler) ApprovePost(c *gin.Context) {
	result, err := h.services.Moderation.ApprovePost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("slug", c.Param("slug")).
		Str("moderator", currentUser(c).ID).
		Str("outcome", result.Outcome.String()).
		Msg("Post approval requested")

	c.JSON(http.StatusOK, gin.H{
		"post":    result.Post,
		"message": outcomeMessage(result.Outcome),
	})
}

// ApproveProject handles POST /v1/moderation/projects/:slug/approve
func (h *ModerationHandler) ApproveProject(c *gin.Context) {
	result, err := h.services.Moderation.ApproveProject(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("slug", c.Param("slug")).
		Str("moderator", currentUser(c).ID).
		Str("outcome", result.Outcome.String()).
		Msg("Project approval requested")

	c.JSON(http.StatusOK, gin.H{
		"project": result.Project,
		"message": outcomeMessage(result.Outcome),
	})
}
