package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a member or admin in the system
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	DisplayName string     `json:"display_name"`
	JobTitle    string     `json:"job_title"`
	AvatarURL   string     `json:"avatar_url"`
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index" json:"team_id"`
	Team        *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Team groups users for team-level views
type Team struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	Members []User `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
