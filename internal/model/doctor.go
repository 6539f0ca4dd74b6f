package model

import (
	"github.com/google/uuid"
)

// Doctor is read-only input to the booking flow. Patient count is derived
// from appointments, never stored.
type Doctor struct {
	Base
	UserID     *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Speciality string     `json:"speciality" db:"speciality"`
	Rating     float64    `json:"rating" db:"rating"`
	Experience string     `json:"experience" db:"experience"`
	ImageURL   *string    `json:"image_url,omitempty" db:"image_url"`
}

// UpdateDoctorProfileRequest carries the doctor-editable fields.
type UpdateDoctorProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	Speciality string `json:"speciality" binding:"required"`
	Experience string `json:"experience" binding:"omitempty,max=64"`
}

// PatientSummary is the doctor-side view of a patient, derived from that
// doctor's appointment rows joined with the patient's profile.
type PatientSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Age               *int      `json:"age,omitempty"`
	Gender            string    `json:"gender"`
	LastVisit         string    `json:"last_visit"`
	TotalAppointments int       `json:"total_appointments"`
}
