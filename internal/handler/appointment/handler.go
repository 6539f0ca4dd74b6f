package appointment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	appointmentsvc "github.com/Juniorkpabitey/virtra/internal/service/appointment"
	doctorsvc "github.com/Juniorkpabitey/virtra/internal/service/doctor"
)

type Handler struct {
	service       *appointmentsvc.Service
	doctorService *doctorsvc.Service
}

func NewHandler(service *appointmentsvc.Service, doctorService *doctorsvc.Service) *Handler {
	return &Handler{service: service, doctorService: doctorService}
}

// RegisterRoutes mounts the patient-facing booking routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/slots", h.ListSlots)
	}
}

// RegisterDoctorRoutes mounts the doctor-side appointment routes.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListDoctorAppointments)
	r.PATCH("/appointments/:id/status", h.UpdateStatus)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsvc.ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "slot is not a bookable label"})
		case errors.Is(err, appointmentsvc.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "an active appointment already exists for this slot"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to book appointment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": appointment})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return
	}

	appointments, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.service.Slots()})
}

func (h *Handler) ListDoctorAppointments(c *gin.Context) {
	doctor, ok := h.resolveDoctor(c)
	if !ok {
		return
	}

	appointments, err := h.service.ListForDoctor(c.Request.Context(), doctor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointmentsvc.FilterAppointments(appointments, c.Query("search"))})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	doctor, ok := h.resolveDoctor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), doctor.ID, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "appointment not found"})
		case errors.Is(err, appointmentsvc.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "appointment does not belong to this doctor"})
		case errors.Is(err, appointmentsvc.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to update appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointment})
}

func (h *Handler) resolveDoctor(c *gin.Context) (*model.Doctor, bool) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid user ID"})
		return nil, false
	}

	doctor, err := h.doctorService.GetDoctorForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "doctor profile not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to load doctor profile"})
		return nil, false
	}
	return doctor, true
}
