package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// recentActivity handles GET /api/activity
func (r *Router) recentActivity(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	activities, err := r.svc.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activities})
}
