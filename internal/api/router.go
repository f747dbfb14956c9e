// Package api exposes the data service over REST. Handlers are thin: they
// bind input, call the service façade, and translate error kinds to HTTP
// statuses.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/service"
	"github.com/plumehq/plume/internal/store"
	"github.com/plumehq/plume/pkg/logging"
)

// Router sets up API routes
type Router struct {
	svc    *service.Service
	db     *store.DB
	cache  *cache.Cache
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(svc *service.Service, database *store.DB, redisCache *cache.Cache) *Router {
	return &Router{
		svc:    svc,
		db:     database,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)
	engine.GET("/ready", r.readyHandler)

	api := engine.Group("/api")

	// Posts
	api.GET("/posts", r.listPosts)
	api.POST("/posts", r.createPost)
	api.GET("/posts/trending", r.trendingPosts)
	api.GET("/posts/search", r.searchPosts)
	api.GET("/posts/slug/:slug", r.getPostBySlug)
	api.GET("/posts/id/:id", r.getPostByID)
	api.PATCH("/posts/id/:id", r.updatePost)
	api.DELETE("/posts/id/:id", r.deletePost)
	api.POST("/posts/id/:id/publish", r.publishPost)
	api.POST("/posts/id/:id/unpublish", r.unpublishPost)
	api.GET("/posts/id/:id/analytics", r.postAnalytics)
	api.GET("/posts/id/:id/comments", r.listComments)
	api.POST("/posts/id/:id/comments", r.createComment)
	api.POST("/posts/id/:id/tags", r.attachTags)
	api.GET("/drafts", r.listDrafts)

	// Comments
	api.DELETE("/comments/:id", r.deleteComment)

	// Profiles
	api.POST("/profiles", r.createProfile)
	api.GET("/profiles/:id", r.getProfile)
	api.PATCH("/profiles/:id", r.updateProfile)
	api.GET("/profiles/:id/posts", r.userPosts)
	api.GET("/profiles/:id/stats", r.authorStats)
	api.GET("/profiles/username/:username", r.getProfileByUsername)

	// Tags
	api.GET("/tags", r.listTags)
	api.GET("/tags/popular", r.popularTags)

	// Activity
	api.GET("/activity", r.recentActivity)
}

// healthHandler handles liveness requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "plume-api",
	})
}

// readyHandler reports readiness of the backing stores
func (r *Router) readyHandler(c *gin.Context) {
	if r.db != nil {
		if err := r.db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	if r.cache != nil {
		if err := r.cache.Health(c.Request.Context()); err != nil && err != cache.ErrCacheDisabled {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "cache": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
