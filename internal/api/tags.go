package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type attachTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// listTags handles GET /api/tags
func (r *Router) listTags(c *gin.Context) {
	tags, err := r.svc.GetTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// popularTags handles GET /api/tags/popular
func (r *Router) popularTags(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	tags, err := r.svc.GetPopularTags(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// attachTags handles POST /api/posts/id/:id/tags. Lets a caller retry the
// tagging step after a partial create.
func (r *Router) attachTags(c *gin.Context) {
	var req attachTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}

	if err := r.svc.AttachTags(c.Request.Context(), c.Param("id"), req.Tags); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
