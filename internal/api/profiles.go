package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumehq/plume/internal/service"
)

type createProfileRequest struct {
	Username  string `json:"username" binding:"required"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

type updateProfileRequest struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// createProfile handles POST /api/profiles
func (r *Router) createProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}

	profile, err := r.svc.CreateProfile(c.Request.Context(), service.CreateProfileInput{
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": profile})
}

// getProfile handles GET /api/profiles/:id
func (r *Router) getProfile(c *gin.Context) {
	profile, err := r.svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// getProfileByUsername handles GET /api/profiles/username/:username
func (r *Router) getProfileByUsername(c *gin.Context) {
	profile, err := r.svc.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// updateProfile handles PATCH /api/profiles/:id
func (r *Router) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"kind": "validation_failed", "message": err.Error()}})
		return
	}

	profile, err := r.svc.UpdateProfile(c.Request.Context(), c.Param("id"), service.UpdateProfileInput{
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// authorStats handles GET /api/profiles/:id/stats
func (r *Router) authorStats(c *gin.Context) {
	stats, err := r.svc.GetAuthorStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
