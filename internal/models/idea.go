package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus tracks an improvement idea through the approval workflow
type IdeaStatus string

const (
	IdeaStatusSubmitted   IdeaStatus = "SUBMITTED"
	IdeaStatusApproved    IdeaStatus = "APPROVED"
	IdeaStatusImplemented IdeaStatus = "IMPLEMENTED"
	IdeaStatusRejected    IdeaStatus = "REJECTED"
)

// Idea is an improvement idea submitted by a member
type Idea struct {
	Base
	AuthorID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"author_id"`
	Author        User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Category      string     `json:"category"`
	Status        IdeaStatus `gorm:"type:varchar(16);default:SUBMITTED" json:"status"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNote    string     `json:"review_note"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ImplementedAt *time.Time `json:"implemented_at,omitempty"`

	Votes    []IdeaVote    `gorm:"foreignKey:IdeaID" json:"votes,omitempty"`
	Comments []IdeaComment `gorm:"foreignKey:IdeaID" json:"comments,omitempty"`
}

// IdeaVote is one user's upvote on an idea. The unique index keeps a
// user from voting twice on the same idea.
type IdeaVote struct {
	Base
	IdeaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idea_voter" json:"idea_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idea_voter" json:"user_id"`
}

// IdeaComment is a comment on an idea
type IdeaComment struct {
	Base
	IdeaID uuid.UUID `gorm:"type:uuid;index;not null" json:"idea_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body   string    `gorm:"type:text;not null" json:"body"`
}
