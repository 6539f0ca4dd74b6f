package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatAudience selects which transcript table a chat record belongs to.
type ChatAudience string

const (
	ChatAudiencePatient ChatAudience = "patient"
	ChatAudienceDoctor  ChatAudience = "doctor"
)

// ChatRecord is one persisted (prompt, response) exchange. Append-only.
type ChatRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"-" db:"owner_id"`
	Prompt    string    `json:"prompt" db:"prompt"`
	Response  string    `json:"response" db:"response"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SendChatRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}
