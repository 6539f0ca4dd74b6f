package model

import (
	"time"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

// User type constants
const (
	UserTypePatient = "patient"
	UserTypeDoctor  = "doctor"
)

// User is an account known to the identity layer. Profile attributes live
// in a separate profiles row keyed by the same id.
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Type             string     `json:"type" db:"type"`
	Status           string     `json:"status" db:"status"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"-" db:"last_login_attempt"`
}

// Profile holds the user-editable attributes shown on the profile page.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"firstname" db:"firstname"`
	LastName  string    `json:"lastname" db:"lastname"`
	Email     string    `json:"email" db:"email"`
	Age       *int      `json:"age,omitempty" db:"age"`
	Gender    string    `json:"gender" db:"gender"`
	Contact   string    `json:"contact" db:"contact"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Profile) FullName() string {
	if p.FirstName == "" && p.LastName == "" {
		return ""
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// UpdateProfileRequest carries the upsertable profile fields.
type UpdateProfileRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Age       *int   `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender    string `json:"gender" binding:"omitempty,oneof=male female other"`
	Contact   string `json:"contact" binding:"omitempty,max=32"`
}
