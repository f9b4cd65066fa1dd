package api

import (
	"net/http"
	"time"

	"github.com/blog-showcase-api/internal/config"
	"github.com/blog-showcase-api/internal/service"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, tokens *token.Manager, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	postHandler := NewPostHandler(services, log)
	projectHandler := NewProjectHandler(services, log)
	moderationHandler := NewModerationHandler(services, log)
	browseHandler := NewBrowseHandler(services, log)

	requireAuth := authMiddleware(tokens, services.Auth, log)
	maybeAuth := optionalAuthMiddleware(tokens, services.Auth)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.PUT("/me", requireAuth, authHandler.UpdateMe)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", postHandler.List)
			posts.POST("", requireAuth, postHandler.Create)
			posts.GET("/:slug", maybeAuth, postHandler.Get)
			posts.PUT("/:slug", requireAuth, postHandler.Update)
			posts.GET("/:slug/comments", maybeAuth, postHandler.ListComments)
			posts.POST("/:slug/comments", requireAuth, postHandler.AddComment)
			posts.POST("/:slug/ratings", requireAuth, postHandler.Rate)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.POST("", requireAuth, projectHandler.Create)
			projects.GET("/:slug", maybeAuth, projectHandler.Get)
		}

		v1.GET("/categories", browseHandler.ListCategories)
		v1.GET("/categories/:slug/posts", browseHandler.CategoryPosts)
		v1.GET("/tags", browseHandler.PopularTags)
		v1.GET("/search", browseHandler.Search)
		v1.GET("/stats", browseHandler.SiteStats)

		moderation := v1.Group("/moderation", requireAuth, moderatorOnly())
		{
			moderation.GET("/queue", moderationHandler.Queue)
			moderation.POST("/posts/:slug/approve", moderationHandler.ApprovePost)
			moderation.POST("/projects/:slug/approve", moderationHandler.ApproveProject)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blog-showcase-api",
	})
}

// metricsHandler returns content counters
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Stats.Site(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"content": gin.H{
				"published_posts":   stats.PublishedPosts,
				"approved_projects": stats.ApprovedProjects,
				"categories":        stats.Categories,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
