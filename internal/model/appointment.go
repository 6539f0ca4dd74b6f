package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// DefaultSlots is the fixed set of bookable slot labels. Slots are labels,
// not scheduling primitives: no date, no duration.
var DefaultSlots = []string{"9:00 AM", "10:00 AM", "11:00 AM"}

// ValidTransition reports whether an appointment may move from one status
// to another. pending -> confirmed -> completed|cancelled; cancelling a
// pending appointment is also allowed.
func ValidTransition(from, to AppointmentStatus) bool {
	switch from {
	case AppointmentStatusPending:
		return to == AppointmentStatusConfirmed || to == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return to == AppointmentStatusCompleted || to == AppointmentStatusCancelled
	default:
		return false
	}
}

type Appointment struct {
	Base
	UserID   uuid.UUID         `json:"user_id" db:"user_id"`
	DoctorID uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Slot     string            `json:"slot" db:"slot"`
	Message  string            `json:"message,omitempty" db:"message"`
	Status   AppointmentStatus `json:"status" db:"status"`
}

// AppointmentWithDoctor is the patient-view row: the appointment joined
// with the doctor's display attributes in one normalized shape.
type AppointmentWithDoctor struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	Slot             string            `json:"slot" db:"slot"`
	Message          string            `json:"message,omitempty" db:"message"`
	Status           AppointmentStatus `json:"status" db:"status"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	DoctorID         uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	DoctorName       string            `json:"doctor_name" db:"doctor_name"`
	DoctorSpeciality string            `json:"doctor_speciality" db:"doctor_speciality"`
}

// AppointmentWithPatient is the doctor-view row: the appointment joined
// with the patient's display attributes.
type AppointmentWithPatient struct {
	ID           uuid.UUID         `json:"id"`
	Slot         string            `json:"slot"`
	Message      string            `json:"message,omitempty"`
	Status       AppointmentStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	PatientID    uuid.UUID         `json:"patient_id"`
	PatientName  string            `json:"patient_name"`
	PatientEmail string            `json:"patient_email"`
}

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Slot     string    `json:"slot" binding:"required"`
	Message  string    `json:"message" binding:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}
