package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, user_id, doctor_id, slot, message, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.UserID,
		appointment.DoctorID,
		appointment.Slot,
		appointment.Message,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if isUniqueViolation(err) {
		// Racing insert lost to idx_appointments_active_slot.
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, doctor_id, slot, message, status,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListForUser returns the caller's appointments newest first, each joined
// with the doctor's display attributes in one query.
func (r *appointmentRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	query := `
		SELECT a.id, a.slot, a.message, a.status, a.created_at,
			   d.id AS doctor_id, d.name AS doctor_name,
			   d.speciality AS doctor_speciality
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`
	var appointments []*model.AppointmentWithDoctor
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, user_id, doctor_id, slot, message, status,
			   created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

// ExistsForSlot reports whether the user already holds an active booking
// for this doctor and slot. Backed by the partial unique index in the
// schema, so a racing insert still fails at the store.
func (r *appointmentRepository) ExistsForSlot(ctx context.Context, userID, doctorID uuid.UUID, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE user_id = $1
			AND doctor_id = $2
			AND slot = $3
			AND status NOT IN ('cancelled', 'completed')
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, doctorID, slot); err != nil {
		return false, fmt.Errorf("failed to check existing booking: %w", err)
	}
	return exists, nil
}
