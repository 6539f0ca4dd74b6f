package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	"github.com/Juniorkpabitey/virtra/internal/storage"
)

type Service struct {
	repo  repository.ProfileRepository
	store storage.Store
}

func NewService(repo repository.ProfileRepository, store storage.Store) *Service {
	return &Service{repo: repo, store: store}
}

// GetProfile returns the stored profile, or an empty one carrying the
// account email when the user has never saved the profile page.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID, accountEmail string) (*model.Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.Profile{ID: userID, Email: accountEmail}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	// Avatar survives a profile save; only the form fields change. A
	// missing row just means no avatar yet, anything else must not
	// silently drop the stored URL.
	var avatar *string
	current, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		avatar = current.AvatarURL
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile := &model.Profile{
		ID:        userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Age:       req.Age,
		Gender:    req.Gender,
		Contact:   req.Contact,
		AvatarURL: avatar,
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// UploadAvatar stores the blob and persists its public URL immediately,
// preserving the other profile fields.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, ext string, r io.Reader) (string, error) {
	name := fmt.Sprintf("avatars/avatar-%s-%d%s", userID, time.Now().Unix(), ext)

	url, err := s.store.Save(ctx, name, r)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	profile, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		profile = &model.Profile{ID: userID}
	} else if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	profile.AvatarURL = &url
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to persist avatar url: %w", err)
	}

	return url, nil
}
