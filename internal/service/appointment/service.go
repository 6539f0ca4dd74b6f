package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Juniorkpabitey/virtra/internal/email"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
)

var (
	ErrInvalidSlot       = errors.New("slot is not a bookable label")
	ErrSlotTaken         = errors.New("an active appointment already exists for this slot")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("appointment does not belong to this doctor")
)

type Service struct {
	repo        repository.AppointmentRepository
	doctorRepo  repository.DoctorRepository
	profileRepo repository.ProfileRepository
	outboxRepo  repository.OutboxRepository
	emailSvc    email.Service
}

func NewService(
	repo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	profileRepo repository.ProfileRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
) *Service {
	return &Service{
		repo:        repo,
		doctorRepo:  doctorRepo,
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		emailSvc:    emailSvc,
	}
}

// Book inserts exactly one pending appointment for the authenticated
// patient. The slot must be one of the fixed labels, the doctor must
// exist, and at most one active appointment may exist per
// (patient, doctor, slot) triple.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !validSlot(req.Slot) {
		return nil, ErrInvalidSlot
	}

	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor: %w", err)
	}

	taken, err := s.repo.ExistsForSlot(ctx, userID, req.DoctorID, req.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	now := time.Now()
	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   userID,
		DoctorID: req.DoctorID,
		Slot:     req.Slot,
		Message:  strings.TrimSpace(req.Message),
		Status:   model.AppointmentStatusPending,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		// Concurrent booking that slipped past the pre-check loses to
		// the unique index and surfaces as the same conflict.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentCreated, appointment)
	s.sendConfirmation(ctx, userID, doctor.Name, appointment.Slot)

	return appointment, nil
}

// ListForUser returns the patient's booking history joined with doctor
// attributes, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	appointments, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListForDoctor returns the doctor's appointments joined with patient
// display attributes via one bulk profile fetch.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	appointments, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	if len(appointments) == 0 {
		return []*model.AppointmentWithPatient{}, nil
	}

	ids := make([]uuid.UUID, 0, len(appointments))
	seen := make(map[uuid.UUID]bool, len(appointments))
	for _, apt := range appointments {
		if !seen[apt.UserID] {
			seen[apt.UserID] = true
			ids = append(ids, apt.UserID)
		}
	}

	profiles, err := s.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient profiles: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	rows := make([]*model.AppointmentWithPatient, 0, len(appointments))
	for _, apt := range appointments {
		row := &model.AppointmentWithPatient{
			ID:          apt.ID,
			Slot:        apt.Slot,
			Message:     apt.Message,
			Status:      apt.Status,
			CreatedAt:   apt.CreatedAt,
			PatientID:   apt.UserID,
			PatientName: "Unknown Patient",
		}
		if p, ok := byID[apt.UserID]; ok {
			row.PatientName = p.FullName()
			row.PatientEmail = p.Email
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateStatus moves an appointment to a new status. Only the owning
// doctor may do so, and only along a legal transition.
func (s *Service) UpdateStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotOwner
	}
	if !model.ValidTransition(appointment.Status, status) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, status); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	s.emitEvent(ctx, model.EventAppointmentStatusChanged, appointment)

	return appointment, nil
}

// Slots returns the bookable slot labels.
func (s *Service) Slots() []string {
	out := make([]string, len(model.DefaultSlots))
	copy(out, model.DefaultSlots)
	return out
}

func validSlot(slot string) bool {
	for _, s := range model.DefaultSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// FilterAppointments matches on patient name, slot and status,
// case-insensitively.
func FilterAppointments(rows []*model.AppointmentWithPatient, term string) []*model.AppointmentWithPatient {
	if term == "" {
		return rows
	}

	needle := strings.ToLower(term)
	filtered := make([]*model.AppointmentWithPatient, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.PatientName), needle) ||
			strings.Contains(strings.ToLower(row.Slot), needle) ||
			strings.Contains(strings.ToLower(string(row.Status)), needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// emitEvent records an outbox row for async delivery. Booking must not
// fail because the event could not be written.
func (s *Service) emitEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload, err := json.Marshal(appointment)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal appointment event")
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to record outbox event")
	}
}

func (s *Service) sendConfirmation(ctx context.Context, userID uuid.UUID, doctorName, slot string) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil || profile.Email == "" {
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, profile.Email, doctorName, slot); err != nil {
		log.Warn().Err(err).Str("email", profile.Email).Msg("failed to send booking confirmation")
	}
}
