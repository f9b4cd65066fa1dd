package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/service"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userContextKey = "user"

// currentUser returns the authenticated user set by the auth middleware,
// or nil for anonymous requests.
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// authMiddleware requires a valid bearer token and loads the full user,
// including capability grants, into the request context.
func authMiddleware(tokens *token.Manager, auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := auth.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Token refers to unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// optionalAuthMiddleware loads the user when a valid token is present and
// proceeds anonymously otherwise. Read endpoints use it so visibility can
// depend on who is asking.
func optionalAuthMiddleware(tokens *token.Manager, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.Next()
			return
		}

		if user, err := auth.GetUser(c.Request.Context(), claims.UserID); err == nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// moderatorOnly gates the moderation surface. Non-moderators get not-found
// rather than forbidden, so the surface itself stays hidden.
func moderatorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !workflow.CanModerate(currentUser(c)) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
