package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// listComments handles GET /api/posts/id/:id/comments
func (r *Router) listComments(c *gin.Context) {
	comments, err := r.svc.GetComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

// createComment handles POST /api/posts/id/:id/comments. Content is
// validated here at the surface; the façade trusts its callers.
func (r *Router) createComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": "content must not be blank"}})
		return
	}

	comment, err := r.svc.CreateComment(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// deleteComment handles DELETE /api/comments/:id
func (r *Router) deleteComment(c *gin.Context) {
	if err := r.svc.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
