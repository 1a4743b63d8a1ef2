package models

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies the caller of an operation. A nil *Session means anonymous.
type Session struct {
	UserID    uuid.UUID    `json:"user_id"`
	Email     string       `json:"email"`
	Metadata  UserMetadata `json:"metadata"`
	TokenID   string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Session) HasRole(role Role) bool {
	return s != nil && s.Metadata.Role == role
}
