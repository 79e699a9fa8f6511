package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Description  string    `gorm:"type:text" json:"description"`
	AvatarURL    string    `gorm:"size:255" json:"avatar_url"`

	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	IsVerified  bool `gorm:"not null;default:false" json:"is_verified"`
	IsBanned    bool `gorm:"not null;default:false" json:"is_banned"`
	IsAdmin     bool `gorm:"not null;default:false" json:"is_admin"`
	IsStaff     bool `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"not null;default:false" json:"is_superuser"`
}

// HasAdminRole reports whether the user holds any moderation role.
func (u *User) HasAdminRole() bool {
	return u.IsAdmin || u.IsStaff || u.IsSuperuser
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
