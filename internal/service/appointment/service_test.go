package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juniorkpabitey/virtra/internal/email"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
)

type fakeAppointmentRepo struct {
	created      []*model.Appointment
	createErr    error
	existing     map[string]bool
	stored       map[uuid.UUID]*model.Appointment
	statusUpdate map[uuid.UUID]model.AppointmentStatus
	forDoctor    []*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		existing:     make(map[string]bool),
		stored:       make(map[uuid.UUID]*model.Appointment),
		statusUpdate: make(map[uuid.UUID]model.AppointmentStatus),
	}
}

func slotKey(userID, doctorID uuid.UUID, slot string) string {
	return userID.String() + "|" + doctorID.String() + "|" + slot
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, a)
	f.stored[a.ID] = a
	f.existing[slotKey(a.UserID, a.DoctorID, a.Slot)] = true
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.stored[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.statusUpdate[id] = status
	return nil
}

func (f *fakeAppointmentRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) ListForDoctor(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return f.forDoctor, nil
}

func (f *fakeAppointmentRepo) ExistsForSlot(_ context.Context, userID, doctorID uuid.UUID, slot string) (bool, error) {
	return f.existing[slotKey(userID, doctorID, slot)], nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error) { return nil, nil }

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) Update(_ context.Context, _ *model.Doctor) error { return nil }

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func (f *fakeProfileRepo) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *model.Profile) error { return nil }

func (f *fakeProfileRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}
func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeAppointmentRepo, *fakeDoctorRepo, *fakeOutboxRepo, uuid.UUID) {
	doctorID := uuid.New()
	repo := newFakeAppointmentRepo()
	doctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {Base: model.Base{ID: doctorID}, Name: "Dr. Grace Nyarko", Speciality: "Dermatologist"},
	}}
	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*model.Profile{}}
	outbox := &fakeOutboxRepo{}
	svc := NewService(repo, doctors, profiles, outbox, email.NoopService{})
	return svc, repo, doctors, outbox, doctorID
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	svc, repo, _, outbox, doctorID := newTestService()
	userID := uuid.New()

	apt, err := svc.Book(context.Background(), userID, &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Slot:     "9:00 AM",
		Message:  "recurring headaches",
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, userID, apt.UserID)
	assert.Equal(t, doctorID, apt.DoctorID)
	assert.Equal(t, "9:00 AM", apt.Slot)
	assert.Equal(t, "recurring headaches", apt.Message)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.NotEqual(t, uuid.Nil, apt.ID)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, outbox.events[0].EventType)
}

func TestBookRejectsUnknownSlot(t *testing.T) {
	svc, repo, _, _, doctorID := newTestService()

	_, err := svc.Book(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Slot:     "1:00 PM",
	})

	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.Empty(t, repo.created)
}

func TestBookRejectsUnknownDoctor(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.Book(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		DoctorID: uuid.New(),
		Slot:     "9:00 AM",
	})

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, repo.created)
}

func TestBookRejectsDuplicateActiveSlot(t *testing.T) {
	svc, repo, _, _, doctorID := newTestService()
	userID := uuid.New()
	req := &model.CreateAppointmentRequest{DoctorID: doctorID, Slot: "10:00 AM"}

	_, err := svc.Book(context.Background(), userID, req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), userID, req)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, repo.created, 1)
}

func TestBookSurfacesConflictWhenInsertLosesRace(t *testing.T) {
	// A concurrent booking can pass the availability pre-check and lose
	// to the store's unique index instead.
	svc, repo, _, outbox, doctorID := newTestService()
	repo.createErr = repository.ErrDuplicate

	_, err := svc.Book(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Slot:     "10:00 AM",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, repo.created)
	assert.Empty(t, outbox.events)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	svc, repo, _, outbox, doctorID := newTestService()
	userID := uuid.New()

	apt, err := svc.Book(context.Background(), userID, &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Slot:     "11:00 AM",
	})
	require.NoError(t, err)

	// pending -> completed is not allowed
	_, err = svc.UpdateStatus(context.Background(), doctorID, apt.ID, model.AppointmentStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// pending -> confirmed is
	updated, err := svc.UpdateStatus(context.Background(), doctorID, apt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
	assert.Equal(t, model.AppointmentStatusConfirmed, repo.statusUpdate[apt.ID])

	// confirmed -> completed is
	updated, err = svc.UpdateStatus(context.Background(), doctorID, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	// completed is terminal
	_, err = svc.UpdateStatus(context.Background(), doctorID, apt.ID, model.AppointmentStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// one created event plus two status changes
	assert.Len(t, outbox.events, 3)
}

func TestUpdateStatusRejectsForeignDoctor(t *testing.T) {
	svc, _, _, _, doctorID := newTestService()

	apt, err := svc.Book(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Slot:     "9:00 AM",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), apt.ID, model.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestListForDoctorJoinsPatientProfiles(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	patientID := uuid.New()
	svc.profileRepo.(*fakeProfileRepo).profiles[patientID] = &model.Profile{
		ID:        patientID,
		FirstName: "Ama",
		LastName:  "Owusu",
		Email:     "ama@example.com",
	}

	doctorID := uuid.New()
	repo.forDoctor = []*model.Appointment{
		{Base: model.Base{ID: uuid.New()}, UserID: patientID, DoctorID: doctorID, Slot: "9:00 AM", Status: model.AppointmentStatusPending},
		{Base: model.Base{ID: uuid.New()}, UserID: uuid.New(), DoctorID: doctorID, Slot: "10:00 AM", Status: model.AppointmentStatusPending},
	}

	rows, err := svc.ListForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ama Owusu", rows[0].PatientName)
	assert.Equal(t, "ama@example.com", rows[0].PatientEmail)
	assert.Equal(t, "Unknown Patient", rows[1].PatientName)
}

func TestFilterAppointments(t *testing.T) {
	rows := []*model.AppointmentWithPatient{
		{PatientName: "Ama Owusu", Slot: "9:00 AM", Status: model.AppointmentStatusPending},
		{PatientName: "Kwame Mensah", Slot: "10:00 AM", Status: model.AppointmentStatusConfirmed},
	}

	assert.Len(t, FilterAppointments(rows, ""), 2)
	assert.Len(t, FilterAppointments(rows, "AMA"), 1)
	assert.Len(t, FilterAppointments(rows, "owusu"), 1)
	assert.Len(t, FilterAppointments(rows, "confirmed"), 1)
	assert.Empty(t, FilterAppointments(rows, "nomatch"))
}
