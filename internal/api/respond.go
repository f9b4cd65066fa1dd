package api

import (
	"errors"
	"net/http"

	"github.com/blog-showcase-api/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// writeError maps service errors onto HTTP responses. Validation failures
// carry their field list; everything unexpected collapses to a 500 without
// leaking internals.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	if ve, ok := common.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, common.ErrNotPublished):
		c.JSON(http.StatusConflict, gin.H{"error": "content is not published"})
	case errors.Is(err, common.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
