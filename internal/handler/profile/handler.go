package profile

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
	profilesvc "github.com/Juniorkpabitey/virtra/internal/service/profile"
)

const maxAvatarSize = 5 << 20 // 5 MiB

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Handler struct {
	service *profilesvc.Service
}

func NewHandler(service *profilesvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/avatar", h.UploadAvatar)
	}
}

// GetProfile returns the caller's profile. A user who has never saved one
// gets an empty profile prefilled with their account email.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID, c.GetString(middleware.ContextUserEmail))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": profile})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": profile})
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "avatar file is required"})
		return
	}
	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "avatar exceeds size limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "unsupported image type"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to read upload"})
		return
	}
	defer src.Close()

	url, err := h.service.UploadAvatar(c.Request.Context(), userID, ext, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to store avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"avatar_url": url}})
}
