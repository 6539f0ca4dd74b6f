package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Juniorkpabitey/virtra/internal/email"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	pkgauth "github.com/Juniorkpabitey/virtra/pkg/auth"
	"github.com/Juniorkpabitey/virtra/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.byEmail[strings.ToLower(u.Email)] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.byEmail[strings.ToLower(u.Email)] = u
	f.byID[u.ID] = u
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*model.Profile)}
}

func (f *fakeProfileRepo) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p *model.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByIDs(_ context.Context, _ []uuid.UUID) ([]*model.Profile, error) {
	return nil, nil
}

type fakeTokenRepo struct {
	tokens  map[string]uuid.UUID
	revoked []uuid.UUID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]uuid.UUID)}
}

func (f *fakeTokenRepo) StoreRefreshToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateRefreshToken(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := f.tokens[token]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (f *fakeTokenRepo) RevokeRefreshTokens(_ context.Context, userID uuid.UUID) error {
	f.revoked = append(f.revoked, userID)
	for token, id := range f.tokens {
		if id == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeProfileRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	tokens := newFakeTokenRepo()
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	svc := NewService(users, profiles, tokens, jwtSvc, security.NewBcryptHasher(bcrypt.MinCost), email.NoopService{}, time.Hour)
	return svc, users, profiles, tokens
}

func signupReq() *model.SignupRequest {
	return &model.SignupRequest{
		FirstName: "Ama",
		LastName:  "Owusu",
		Email:     "ama@example.com",
		Password:  "sup3r-secret",
	}
}

func TestSignupCreatesUserAndProfile(t *testing.T) {
	svc, users, profiles, _ := newTestService()

	user, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	assert.Equal(t, model.UserTypePatient, user.Type)
	assert.NotEqual(t, "sup3r-secret", user.PasswordHash)

	stored, err := users.GetByEmail(context.Background(), "ama@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	profile, err := profiles.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ama Owusu", profile.FullName())
	assert.Equal(t, "ama@example.com", profile.Email)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupReq())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, _, tokens := newTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "ama@example.com", "sup3r-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Len(t, tokens.tokens, 1)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ama@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "sup3r-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLocksAccountAfterRepeatedFailures(t *testing.T) {
	svc, users, _, _ := newTestService()

	user, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err = svc.Login(context.Background(), "ama@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored, err := users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusLocked, stored.Status)

	_, err = svc.Login(context.Background(), "ama@example.com", "sup3r-secret")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), "ama@example.com", "sup3r-secret")
	require.NoError(t, err)

	second, err := svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	svc, _, _, tokens := newTestService()

	user, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), "ama@example.com", "sup3r-secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Contains(t, tokens.revoked, user.ID)

	_, err = svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.Error(t, err)
}
