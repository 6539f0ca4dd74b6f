package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	"github.com/Juniorkpabitey/virtra/internal/storage"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
	getErr   error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*model.Profile)}
}

func (f *fakeProfileRepo) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p *model.Profile) error {
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByIDs(_ context.Context, _ []uuid.UUID) ([]*model.Profile, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *fakeProfileRepo) {
	t.Helper()
	repo := newFakeProfileRepo()
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/static")
	require.NoError(t, err)
	return NewService(repo, store), repo
}

func TestGetProfileDefaultsToAccountEmail(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	profile, err := svc.GetProfile(context.Background(), userID, "ama@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "ama@example.com", profile.Email)
	assert.Empty(t, profile.FirstName)
}

func TestUpdateProfilePreservesAvatar(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.New()

	url, err := svc.UploadAvatar(context.Background(), userID, ".png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NotEmpty(t, url)

	_, err = svc.UpdateProfile(context.Background(), userID, &model.UpdateProfileRequest{
		FirstName: "Ama",
		LastName:  "Owusu",
		Email:     "ama@example.com",
	})
	require.NoError(t, err)

	stored := repo.profiles[userID]
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, url, *stored.AvatarURL)
	assert.Equal(t, "Ama", stored.FirstName)
}

func TestUpdateProfileFailsOnTransientLoadError(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.New()

	url, err := svc.UploadAvatar(context.Background(), userID, ".png", strings.NewReader("png"))
	require.NoError(t, err)

	repo.getErr = errors.New("connection reset")
	_, err = svc.UpdateProfile(context.Background(), userID, &model.UpdateProfileRequest{
		FirstName: "Ama",
	})
	require.Error(t, err)

	// The stored avatar must not be dropped by the failed save.
	repo.getErr = nil
	stored := repo.profiles[userID]
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, url, *stored.AvatarURL)
	assert.Empty(t, stored.FirstName)
}

func TestUploadAvatarKeepsProfileFields(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.New()

	_, err := svc.UpdateProfile(context.Background(), userID, &model.UpdateProfileRequest{
		FirstName: "Ama",
		LastName:  "Owusu",
		Email:     "ama@example.com",
	})
	require.NoError(t, err)

	url, err := svc.UploadAvatar(context.Background(), userID, ".jpg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.Contains(t, url, "avatars/avatar-"+userID.String())

	stored := repo.profiles[userID]
	assert.Equal(t, "Ama", stored.FirstName)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, url, *stored.AvatarURL)
}
