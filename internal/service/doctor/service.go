package doctor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	"github.com/Juniorkpabitey/virtra/internal/storage"
)

const (
	cacheTTL     = 1 * time.Minute
	cacheCleanup = 5 * time.Minute
)

type Service struct {
	repo            repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	profileRepo     repository.ProfileRepository
	store           storage.Store
	cache           *gocache.Cache
}

func NewService(
	repo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	profileRepo repository.ProfileRepository,
	store storage.Store,
) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		profileRepo:     profileRepo,
		store:           store,
		cache:           gocache.New(cacheTTL, cacheCleanup),
	}
}

// ListDoctors fetches the collection and applies the in-memory search
// filter. An empty term returns the fetched list unchanged.
func (s *Service) ListDoctors(ctx context.Context, search string) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return FilterDoctors(doctors, search), nil
}

// FilterDoctors is a case-insensitive substring match over name and
// speciality. Order is preserved.
func FilterDoctors(doctors []*model.Doctor, term string) []*model.Doctor {
	if term == "" {
		return doctors
	}

	needle := strings.ToLower(term)
	filtered := make([]*model.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Name), needle) ||
			strings.Contains(strings.ToLower(d.Speciality), needle) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Doctor), nil
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	s.cache.Set(id.String(), doctor, gocache.DefaultExpiration)
	return doctor, nil
}

// GetDoctorForUser resolves the doctor record owned by an authenticated
// doctor account.
func (s *Service) GetDoctorForUser(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor for user: %w", err)
	}
	return doctor, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor for user: %w", err)
	}

	doctor.Name = req.Name
	doctor.Speciality = req.Speciality
	doctor.Experience = req.Experience

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.cache.Delete(doctor.ID.String())
	return doctor, nil
}

func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, ext string, r io.Reader) (string, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve doctor for user: %w", err)
	}

	name := fmt.Sprintf("avatars/avatar-%s-%d%s", userID, time.Now().Unix(), ext)
	url, err := s.store.Save(ctx, name, r)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	doctor.ImageURL = &url
	if err := s.repo.Update(ctx, doctor); err != nil {
		return "", fmt.Errorf("failed to persist avatar url: %w", err)
	}

	s.cache.Delete(doctor.ID.String())
	return url, nil
}

// ListPatients derives the doctor's patients from their appointment rows:
// distinct user ids with appointment counts and last visit, merged with a
// bulk profile fetch. A doctor with no appointments gets an empty list.
func (s *Service) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientSummary, error) {
	appointments, err := s.appointmentRepo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	if len(appointments) == 0 {
		return []*model.PatientSummary{}, nil
	}

	type visit struct {
		count int
		last  time.Time
	}
	visits := make(map[uuid.UUID]*visit)
	order := make([]uuid.UUID, 0)
	for _, apt := range appointments {
		v, ok := visits[apt.UserID]
		if !ok {
			v = &visit{}
			visits[apt.UserID] = v
			order = append(order, apt.UserID)
		}
		v.count++
		if apt.CreatedAt.After(v.last) {
			v.last = apt.CreatedAt
		}
	}

	profiles, err := s.profileRepo.GetByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient profiles: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	patients := make([]*model.PatientSummary, 0, len(order))
	for _, id := range order {
		v := visits[id]
		summary := &model.PatientSummary{
			ID:                id,
			Name:              "Unknown Patient",
			LastVisit:         v.last.Format(time.RFC3339),
			TotalAppointments: v.count,
		}
		if p, ok := byID[id]; ok {
			summary.Name = p.FullName()
			summary.Email = p.Email
			summary.Phone = p.Contact
			summary.Age = p.Age
			summary.Gender = p.Gender
		}
		patients = append(patients, summary)
	}

	sort.SliceStable(patients, func(i, j int) bool {
		return patients[i].LastVisit > patients[j].LastVisit
	})

	return patients, nil
}

// FilterPatients is a case-insensitive substring match over patient name
// and email.
func FilterPatients(patients []*model.PatientSummary, term string) []*model.PatientSummary {
	if term == "" {
		return patients
	}

	needle := strings.ToLower(term)
	filtered := make([]*model.PatientSummary, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
