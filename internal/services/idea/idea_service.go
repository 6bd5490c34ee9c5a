package idea

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/mission"
	"github.com/kaizenhub/backend/internal/services/points"
	"gorm.io/gorm"
)

// Fixed award amounts for the idea workflow
const (
	PointsIdeaCreated     = 50
	PointsIdeaApproved    = 100
	PointsIdeaImplemented = 200
)

var (
	// ErrAlreadyVoted is returned when a user votes twice on the same idea
	ErrAlreadyVoted = errors.New("user already voted on this idea")

	// ErrInvalidTransition is returned when a review action does not fit
	// the idea's current status
	ErrInvalidTransition = errors.New("idea status does not allow this transition")
)

// IdeaService handles the improvement-idea workflow and its point awards
type IdeaService struct {
	db         *gorm.DB
	pointsSvc  *points.PointsService
	missionSvc *mission.MissionService
}

// NewIdeaService creates a new idea service
func NewIdeaService(db *gorm.DB, pointsSvc *points.PointsService, missionSvc *mission.MissionService) *IdeaService {
	return &IdeaService{db: db, pointsSvc: pointsSvc, missionSvc: missionSvc}
}

// Submit creates a new idea and awards the author the creation points
func (s *IdeaService) Submit(authorID uuid.UUID, title, description, category string) (*models.Idea, error) {
	idea := models.Idea{
		AuthorID:    authorID,
		Title:       title,
		Description: description,
		Category:    category,
		Status:      models.IdeaStatusSubmitted,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&idea).Error; err != nil {
			return fmt.Errorf("error creating idea: %w", err)
		}
		if _, err := s.pointsSvc.AwardWithTx(tx, authorID, PointsIdeaCreated, models.SourceIdeaCreated, &idea.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.missionSvc.RecordProgressForEvent(authorID, "idea_created", time.Now()); err != nil {
		return nil, err
	}

	return &idea, nil
}

// List returns ideas ordered most recent first, optionally filtered by status
func (s *IdeaService) List(status models.IdeaStatus, page, pageSize int) ([]models.Idea, int64, error) {
	query := s.db.Model(&models.Idea{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting ideas: %w", err)
	}

	var ideas []models.Idea
	offset := (page - 1) * pageSize
	if err := query.Preload("Author").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&ideas).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding ideas: %w", err)
	}

	return ideas, total, nil
}

// Get returns one idea with its votes and comments
func (s *IdeaService) Get(ideaID uuid.UUID) (*models.Idea, error) {
	var idea models.Idea
	if err := s.db.Preload("Author").Preload("Votes").Preload("Comments.User").First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, fmt.Errorf("error finding idea: %w", err)
	}
	return &idea, nil
}

// Vote records a user's upvote on an idea, once per user per idea
func (s *IdeaService) Vote(ideaID, userID uuid.UUID) (*models.IdeaVote, error) {
	var idea models.Idea
	if err := s.db.First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, fmt.Errorf("error finding idea: %w", err)
	}

	vote := models.IdeaVote{IdeaID: ideaID, UserID: userID}
	if err := s.db.Create(&vote).Error; err != nil {
		var existing models.IdeaVote
		if s.db.Where("idea_id = ? AND user_id = ?", ideaID, userID).First(&existing).Error == nil {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("error creating vote: %w", err)
	}

	if err := s.missionSvc.RecordProgressForEvent(userID, "idea_voted", time.Now()); err != nil {
		return nil, err
	}

	return &vote, nil
}

// Comment adds a comment to an idea
func (s *IdeaService) Comment(ideaID, userID uuid.UUID, body string) (*models.IdeaComment, error) {
	var idea models.Idea
	if err := s.db.First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, fmt.Errorf("error finding idea: %w", err)
	}

	comment := models.IdeaComment{IdeaID: ideaID, UserID: userID, Body: body}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	return &comment, nil
}

// Approve moves a submitted idea to APPROVED, awards the author, and
// feeds approval-event missions
func (s *IdeaService) Approve(ideaID, reviewerID uuid.UUID, note string) (*models.Idea, error) {
	idea, err := s.review(ideaID, reviewerID, note, models.IdeaStatusSubmitted, models.IdeaStatusApproved, PointsIdeaApproved, models.SourceIdeaApproved)
	if err != nil {
		return nil, err
	}

	if err := s.missionSvc.RecordProgressForEvent(idea.AuthorID, "idea_approved", time.Now()); err != nil {
		return nil, err
	}
	return idea, nil
}

// Implement moves an approved idea to IMPLEMENTED and awards the author
func (s *IdeaService) Implement(ideaID, reviewerID uuid.UUID, note string) (*models.Idea, error) {
	return s.review(ideaID, reviewerID, note, models.IdeaStatusApproved, models.IdeaStatusImplemented, PointsIdeaImplemented, models.SourceIdeaImplemented)
}

// Reject moves a submitted idea to REJECTED; no points move
func (s *IdeaService) Reject(ideaID, reviewerID uuid.UUID, note string) (*models.Idea, error) {
	return s.review(ideaID, reviewerID, note, models.IdeaStatusSubmitted, models.IdeaStatusRejected, 0, "")
}

// review applies a status transition conditioned on the current status
// and, when awardPoints > 0, credits the idea's author in the same
// database transaction.
func (s *IdeaService) review(ideaID, reviewerID uuid.UUID, note string, from, to models.IdeaStatus, awardPoints int, source models.PointSource) (*models.Idea, error) {
	var idea models.Idea
	if err := s.db.First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, fmt.Errorf("error finding idea: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      to,
		"reviewed_by": reviewerID,
		"review_note": note,
		"reviewed_at": now,
	}
	if to == models.IdeaStatusImplemented {
		updates["implemented_at"] = now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Idea{}).Where("id = ? AND status = ?", ideaID, from).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("error updating idea status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if awardPoints > 0 {
			if _, err := s.pointsSvc.AwardWithTx(tx, idea.AuthorID, awardPoints, source, &idea.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, fmt.Errorf("error reloading idea: %w", err)
	}
	return &idea, nil
}
