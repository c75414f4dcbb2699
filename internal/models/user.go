package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a Gratia account. The rich content pipeline only needs the
// parts of the profile that mentions touch: the canonical (lowercase)
// username plus display fields. Soft deletion matters here: a deleted
// account drops out of the valid-username set, which is why rendering
// re-validates stored mentions.
type User struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `json:"avatar_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an ID when the database default is unavailable
// (SQLite in tests has no gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
