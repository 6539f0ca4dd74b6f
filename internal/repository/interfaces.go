package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/model"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert loses to a unique constraint.
var ErrDuplicate = errors.New("duplicate row")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Profile, error)
}

type DoctorRepository interface {
	List(ctx context.Context) ([]*model.Doctor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentWithDoctor, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	ExistsForSlot(ctx context.Context, userID, doctorID uuid.UUID, slot string) (bool, error)
}

type ChatRepository interface {
	Create(ctx context.Context, audience model.ChatAudience, record *model.ChatRecord) error
	ListForOwner(ctx context.Context, audience model.ChatAudience, ownerID uuid.UUID) ([]*model.ChatRecord, error)
}

type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
	ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
