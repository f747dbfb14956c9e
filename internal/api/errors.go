package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumehq/plume/internal/service"
)

// statusFor maps a service error kind to an HTTP status
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindValidationFailed:
		return http.StatusBadRequest
	case service.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error as a JSON error response
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	c.JSON(statusFor(kind), gin.H{
		"error": gin.H{
			"kind":    kind.String(),
			"message": err.Error(),
		},
	})
}

// respondPartial writes a partial-failure response: the resource committed
// but dependent state may be incomplete, so the body carries both
func respondPartial(c *gin.Context, status int, resource interface{}, err error) {
	c.JSON(status, gin.H{
		"data": resource,
		"error": gin.H{
			"kind":    service.KindPartialFailure.String(),
			"message": err.Error(),
		},
	})
}
