package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies what a notification is about
type NotificationKind string

const (
	NotificationKudosReceived NotificationKind = "KUDOS_RECEIVED"
	NotificationIdeaStatus    NotificationKind = "IDEA_STATUS"
	NotificationMissionClaim  NotificationKind = "MISSION_CLAIM"
	NotificationRedemption    NotificationKind = "REDEMPTION"
)

// Notification is an in-app message for a user
type Notification struct {
	Base
	UserID      uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	Kind        NotificationKind `gorm:"type:varchar(20);not null" json:"kind"`
	Title       string           `gorm:"not null" json:"title"`
	Body        string           `json:"body"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
}
