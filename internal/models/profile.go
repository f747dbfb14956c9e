package models

import (
	"time"
)

// Profile represents the user-facing record for an authenticated identity.
// The profile ID is the identity ID; exactly one profile exists per identity.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:profiles_username_ux;column:username" json:"username"`
	FullName  string    `gorm:"type:varchar(128);column:full_name" json:"full_name,omitempty"`
	Bio       string    `gorm:"type:varchar(500);column:bio" json:"bio,omitempty"`
	AvatarURL string    `gorm:"type:varchar(1024);column:avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}
