package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
)

type fakeDoctorRepo struct {
	doctors  []*model.Doctor
	getCalls int
}

func (f *fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error) {
	return f.doctors, nil
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	f.getCalls++
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID != nil && *d.UserID == userID {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) Update(_ context.Context, doctor *model.Doctor) error {
	for i, d := range f.doctors {
		if d.ID == doctor.ID {
			f.doctors[i] = doctor
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAppointmentRepo struct {
	forDoctor []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, _ *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus) error {
	return nil
}
func (f *fakeAppointmentRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) ListForDoctor(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return f.forDoctor, nil
}
func (f *fakeAppointmentRepo) ExistsForSlot(_ context.Context, _, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

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

func sampleDoctors() []*model.Doctor {
	return []*model.Doctor{
		{Base: model.Base{ID: uuid.New()}, Name: "Dr. Grace Nyarko", Speciality: "Dermatologist"},
		{Base: model.Base{ID: uuid.New()}, Name: "Dr. Kwame Mensah", Speciality: "Cardiologist"},
		{Base: model.Base{ID: uuid.New()}, Name: "Dr. Ama Owusu", Speciality: "Pediatrician"},
	}
}

func TestFilterDoctors(t *testing.T) {
	doctors := sampleDoctors()

	t.Run("empty term returns all in order", func(t *testing.T) {
		got := FilterDoctors(doctors, "")
		require.Len(t, got, 3)
		assert.Equal(t, doctors, got)
	})

	t.Run("matches speciality substring", func(t *testing.T) {
		got := FilterDoctors(doctors, "derma")
		require.Len(t, got, 1)
		assert.Equal(t, "Dr. Grace Nyarko", got[0].Name)
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := FilterDoctors(doctors, "MENSAH")
		require.Len(t, got, 1)
		assert.Equal(t, "Dr. Kwame Mensah", got[0].Name)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, FilterDoctors(doctors, "neurologist"))
	})
}

func TestGetDoctorUsesCache(t *testing.T) {
	repo := &fakeDoctorRepo{doctors: sampleDoctors()}
	svc := NewService(repo, &fakeAppointmentRepo{}, &fakeProfileRepo{}, nil)
	id := repo.doctors[0].ID

	first, err := svc.GetDoctor(context.Background(), id)
	require.NoError(t, err)

	second, err := svc.GetDoctor(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getCalls)
}

func TestListPatientsAggregatesVisits(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	otherID := uuid.New()

	appointments := &fakeAppointmentRepo{forDoctor: []*model.Appointment{
		{Base: model.Base{ID: uuid.New(), CreatedAt: time.Now().Add(-48 * time.Hour)}, UserID: patientID, DoctorID: doctorID},
		{Base: model.Base{ID: uuid.New(), CreatedAt: time.Now().Add(-1 * time.Hour)}, UserID: patientID, DoctorID: doctorID},
		{Base: model.Base{ID: uuid.New(), CreatedAt: time.Now().Add(-24 * time.Hour)}, UserID: otherID, DoctorID: doctorID},
	}}
	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*model.Profile{
		patientID: {ID: patientID, FirstName: "Ama", LastName: "Owusu", Email: "ama@example.com"},
	}}

	svc := NewService(&fakeDoctorRepo{}, appointments, profiles, nil)

	patients, err := svc.ListPatients(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, patients, 2)

	// Sorted by last visit, newest first.
	assert.Equal(t, "Ama Owusu", patients[0].Name)
	assert.Equal(t, 2, patients[0].TotalAppointments)
	assert.Equal(t, "Unknown Patient", patients[1].Name)
	assert.Equal(t, 1, patients[1].TotalAppointments)
}

func TestListPatientsEmptyWithoutAppointments(t *testing.T) {
	svc := NewService(&fakeDoctorRepo{}, &fakeAppointmentRepo{}, &fakeProfileRepo{}, nil)

	patients, err := svc.ListPatients(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}
