package models

import "github.com/google/uuid"

// Kudos is a peer recognition message from one member to another
type Kudos struct {
	Base
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"sender_id"`
	Sender      User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Category    string    `json:"category"` // teamwork, innovation, helpfulness, ...
}
