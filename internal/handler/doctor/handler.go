package doctor

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	doctorsvc "github.com/Juniorkpabitey/virtra/internal/service/doctor"
)

const maxAvatarSize = 5 << 20

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type Handler struct {
	service *doctorsvc.Service
}

func NewHandler(service *doctorsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the patient-facing doctor directory.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
	}
}

// RegisterDoctorRoutes mounts the doctor-side portal routes.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetOwnProfile)
	r.PUT("/profile", h.UpdateOwnProfile)
	r.POST("/avatar", h.UploadAvatar)
	r.GET("/patients", h.ListPatients)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list doctors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctors})
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to get doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctor})
}

func (h *Handler) GetOwnProfile(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	doctor, err := h.service.GetDoctorForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load doctor profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctor})
}

func (h *Handler) UpdateOwnProfile(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	doctor, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to update doctor profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctor})
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

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"image_url": url}})
}

func (h *Handler) ListPatients(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	doctor, err := h.service.GetDoctorForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load doctor profile"})
		return
	}

	patients, err := h.service.ListPatients(c.Request.Context(), doctor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list patients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctorsvc.FilterPatients(patients, c.Query("search"))})
}
