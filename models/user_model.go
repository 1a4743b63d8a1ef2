package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleExpert Role = "expert"
	RoleAdmin  Role = "admin"
)

// SelfService reports whether a user may pick this role at sign-up.
func (r Role) SelfService() bool {
	return r == RoleFarmer || r == RoleExpert
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:'farmer'" json:"role"`
	AvatarURL *string   `gorm:"size:255" json:"avatar_url,omitempty"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	FarmType  *string   `gorm:"size:100" json:"farm_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserMetadata is the typed profile record carried in a session.
type UserMetadata struct {
	FullName  string  `json:"full_name"`
	Role      Role    `json:"user_type"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Location  *string `json:"location,omitempty"`
	FarmType  *string `json:"farm_type,omitempty"`
}

func (u *User) Metadata() UserMetadata {
	return UserMetadata{
		FullName:  u.FullName,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		Location:  u.Location,
		FarmType:  u.FarmType,
	}
}
