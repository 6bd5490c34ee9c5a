package models

import (
	"time"

	"github.com/google/uuid"
)

// TriggerType determines the recurrence period of a mission
type TriggerType string

const (
	TriggerDaily  TriggerType = "DAILY"
	TriggerWeekly TriggerType = "WEEKLY"
	TriggerEvent  TriggerType = "EVENT"
)

// MissionStatus is the lifecycle state of a per-user mission instance.
// Transitions only move forward: ACTIVE -> COMPLETED -> CLAIMED.
type MissionStatus string

const (
	MissionStatusActive    MissionStatus = "ACTIVE"
	MissionStatusCompleted MissionStatus = "COMPLETED"
	MissionStatusClaimed   MissionStatus = "CLAIMED"
)

// Mission is an organization-wide mission definition managed by admins.
// Edits apply to future periods only; a running period keeps the values
// its instances were created against.
type Mission struct {
	Base
	Name         string      `gorm:"not null" json:"name"`
	Description  string      `json:"description"`
	TriggerType  TriggerType `gorm:"type:varchar(8);not null" json:"trigger_type"`
	RewardPoints int         `gorm:"not null" json:"reward_points"`
	RulesJSON    string      `gorm:"type:text" json:"rules_json"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
}

// UserMission is one user's progress against a mission within one period.
// Exactly one row exists per (user, mission, period); the unique index
// lets concurrent lazy creations converge on a single instance.
// TargetValue and RewardPoints are snapshots taken at instance creation,
// so editing the mission definition mid-period cannot change a running
// instance's target or payout.
type UserMission struct {
	Base
	UserID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission_period" json:"user_id"`
	MissionID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission_period" json:"mission_id"`
	Mission       Mission       `gorm:"foreignKey:MissionID" json:"-"`
	PeriodStart   time.Time     `gorm:"not null;uniqueIndex:idx_user_mission_period" json:"period_start"`
	PeriodEnd     time.Time     `gorm:"not null" json:"period_end"`
	ProgressValue int           `gorm:"default:0" json:"progress_value"`
	TargetValue   int           `gorm:"not null;default:1" json:"target_value"`
	RewardPoints  int           `gorm:"not null;default:0" json:"reward_points"`
	Status        MissionStatus `gorm:"type:varchar(12);default:ACTIVE" json:"status"`
}
