package models

import "github.com/google/uuid"

// TransactionKind distinguishes earning from spending
type TransactionKind string

const (
	TransactionKindEarn  TransactionKind = "EARN"
	TransactionKindSpend TransactionKind = "SPEND"
)

// PointSource is the enumerated reason a transaction was recorded
type PointSource string

const (
	SourceIdeaCreated      PointSource = "IDEA_CREATED"
	SourceIdeaApproved     PointSource = "IDEA_APPROVED"
	SourceIdeaImplemented  PointSource = "IDEA_IMPLEMENTED"
	SourceKudosSent        PointSource = "KUDOS_SENT"
	SourceKudosReceived    PointSource = "KUDOS_RECEIVED"
	SourceMissionCompleted PointSource = "MISSION_COMPLETED"
	SourceRedeem           PointSource = "REDEEM"
	SourceAdminAdjust      PointSource = "ADMIN_ADJUST"
	SourceStreakBonus      PointSource = "STREAK_BONUS"
)

// PointTransaction is one signed movement in a user's point ledger.
// Rows are append-only: they are never updated or deleted, and a user's
// balance is always the sum of their amounts rather than a stored counter.
type PointTransaction struct {
	Base
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID" json:"-"`
	Amount      int             `gorm:"not null" json:"amount"` // positive = earn, negative = spend
	Kind        TransactionKind `gorm:"type:varchar(8);not null" json:"kind"`
	Source      PointSource     `gorm:"type:varchar(32);not null" json:"source"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid" json:"reference_id,omitempty"`
}
