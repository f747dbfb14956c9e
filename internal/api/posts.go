package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plumehq/plume/internal/service"
)

type createPostRequest struct {
	Title     string   `json:"title" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	Excerpt   string   `json:"excerpt"`
	Published bool     `json:"published"`
	Tags      []string `json:"tags"`
}

type updatePostRequest struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Excerpt   *string  `json:"excerpt"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

// intQuery parses an integer query parameter, falling back on absence or
// garbage
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolQuery(c *gin.Context, name string, fallback bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// listPosts handles GET /api/posts
func (r *Router) listPosts(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)
	publishedOnly := boolQuery(c, "published_only", true)

	posts, err := r.svc.ListPosts(c.Request.Context(), limit, offset, publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// createPost handles POST /api/posts
func (r *Router) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}

	post, err := r.svc.CreatePost(c.Request.Context(), service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if err != nil {
		if service.KindOf(err) == service.KindPartialFailure && post != nil {
			respondPartial(c, http.StatusCreated, post, err)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// getPostBySlug handles GET /api/posts/slug/:slug
func (r *Router) getPostBySlug(c *gin.Context) {
	post, err := r.svc.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// getPostByID handles GET /api/posts/id/:id
func (r *Router) getPostByID(c *gin.Context) {
	post, err := r.svc.GetPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// updatePost handles PATCH /api/posts/id/:id
func (r *Router) updatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}

	post, err := r.svc.UpdatePost(c.Request.Context(), c.Param("id"), service.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if err != nil {
		if service.KindOf(err) == service.KindPartialFailure && post != nil {
			respondPartial(c, http.StatusOK, post, err)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// deletePost handles DELETE /api/posts/id/:id
func (r *Router) deletePost(c *gin.Context) {
	if err := r.svc.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// publishPost handles POST /api/posts/id/:id/publish
func (r *Router) publishPost(c *gin.Context) {
	post, err := r.svc.PublishPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// unpublishPost handles POST /api/posts/id/:id/unpublish
func (r *Router) unpublishPost(c *gin.Context) {
	post, err := r.svc.UnpublishPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// listDrafts handles GET /api/drafts
func (r *Router) listDrafts(c *gin.Context) {
	drafts, err := r.svc.GetDrafts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drafts})
}

// userPosts handles GET /api/profiles/:id/posts
func (r *Router) userPosts(c *gin.Context) {
	publishedOnly := boolQuery(c, "published_only", true)
	posts, err := r.svc.GetUserPosts(c.Request.Context(), c.Param("id"), publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// searchPosts handles GET /api/posts/search. With ranked=true the compute
// backend serves scored results; otherwise the primary substring search
// applies.
func (r *Router) searchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": "q is required"}})
		return
	}
	opts := service.SearchOptions{
		PublishedOnly: boolQuery(c, "published_only", true),
		Limit:         intQuery(c, "limit", 20),
		Offset:        intQuery(c, "offset", 0),
	}

	if boolQuery(c, "ranked", false) {
		hits, err := r.svc.SearchPostsRanked(c.Request.Context(), query, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": hits})
		return
	}

	posts, err := r.svc.SearchPosts(c.Request.Context(), query, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// trendingPosts handles GET /api/posts/trending
func (r *Router) trendingPosts(c *gin.Context) {
	daysBack := intQuery(c, "days_back", 7)
	posts, err := r.svc.GetTrendingPosts(c.Request.Context(), daysBack)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// postAnalytics handles GET /api/posts/id/:id/analytics
func (r *Router) postAnalytics(c *gin.Context) {
	analytics, err := r.svc.GetPostAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": analytics})
}
