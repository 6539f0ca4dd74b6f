package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
	chatsvc "github.com/Juniorkpabitey/virtra/internal/service/chat"
)

type Handler struct {
	service *chatsvc.Service
}

func NewHandler(service *chatsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the patient assistant routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.GET("", h.history(model.ChatAudiencePatient))
		chat.POST("", h.send(model.ChatAudiencePatient))
	}
}

// RegisterDoctorRoutes mounts the doctor assistant routes.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/chat", h.history(model.ChatAudienceDoctor))
	r.POST("/chat", h.send(model.ChatAudienceDoctor))
}

func (h *Handler) history(audience model.ChatAudience) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.UserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
			return
		}

		records, err := h.service.History(c.Request.Context(), audience, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load chat history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
	}
}

func (h *Handler) send(audience model.ChatAudience) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.UserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
			return
		}

		var req model.SendChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}

		record, err := h.service.SendMessage(c.Request.Context(), audience, userID, req.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to send message"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": record})
	}
}
