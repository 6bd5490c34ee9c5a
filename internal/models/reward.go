package models

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionStatus tracks a reward redemption through fulfilment
type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "PENDING"
	RedemptionStatusFulfilled RedemptionStatus = "FULFILLED"
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// Reward is a catalog item members can redeem points for.
// Stock below zero means unlimited.
type Reward struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `json:"description"`
	Cost        int    `gorm:"not null" json:"cost"`
	Stock       int    `gorm:"default:-1" json:"stock"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// Redemption records a member spending points on a reward
type Redemption struct {
	Base
	UserID      uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	User        User             `gorm:"foreignKey:UserID" json:"-"`
	RewardID    uuid.UUID        `gorm:"type:uuid;not null" json:"reward_id"`
	Reward      Reward           `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
	PointsSpent int              `gorm:"not null" json:"points_spent"`
	Reference   string           `gorm:"uniqueIndex" json:"reference"`
	Status      RedemptionStatus `gorm:"type:varchar(12);default:PENDING" json:"status"`
	FulfilledAt *time.Time       `json:"fulfilled_at,omitempty"`
}
