package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
	authsvc "github.com/Juniorkpabitey/virtra/internal/service/auth"
	"github.com/Juniorkpabitey/virtra/pkg/security"
)

type Handler struct {
	service *authsvc.Service
}

func NewHandler(service *authsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	user, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "email already registered"})
		case errors.Is(err, security.ErrTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "password too short"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": gin.H{
		"id":    user.ID,
		"email": user.Email,
		"type":  user.Type,
	}})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrAccountLocked):
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "account is locked, please try again later"})
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": tokens})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": tokens})
}

// Me returns the account behind the presented access token.
func (h *Handler) Me(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"type":   user.Type,
		"status": user.Status,
	}})
}

func (h *Handler) Logout(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
