package kudos

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

// Fixed award amounts for peer recognition
const (
	PointsKudosSent     = 10
	PointsKudosReceived = 20
)

// ErrSelfKudos is returned when a user tries to send kudos to themselves
var ErrSelfKudos = errors.New("cannot send kudos to yourself")

// KudosService handles peer recognition and its point awards
type KudosService struct {
	db         *gorm.DB
	pointsSvc  *points.PointsService
	missionSvc *mission.MissionService
}

// NewKudosService creates a new kudos service
func NewKudosService(db *gorm.DB, pointsSvc *points.PointsService, missionSvc *mission.MissionService) *KudosService {
	return &KudosService{db: db, pointsSvc: pointsSvc, missionSvc: missionSvc}
}

// Send records a kudos and awards both sides in one database transaction
func (s *KudosService) Send(senderID, recipientID uuid.UUID, message, category string) (*models.Kudos, error) {
	if senderID == recipientID {
		return nil, ErrSelfKudos
	}

	var recipient models.User
	if err := s.db.First(&recipient, "id = ?", recipientID).Error; err != nil {
		return nil, fmt.Errorf("error finding recipient: %w", err)
	}

	kudos := models.Kudos{
		SenderID:    senderID,
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&kudos).Error; err != nil {
			return fmt.Errorf("error creating kudos: %w", err)
		}
		if _, err := s.pointsSvc.AwardWithTx(tx, senderID, PointsKudosSent, models.SourceKudosSent, &kudos.ID); err != nil {
			return err
		}
		if _, err := s.pointsSvc.AwardWithTx(tx, recipientID, PointsKudosReceived, models.SourceKudosReceived, &kudos.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.missionSvc.RecordProgressForEvent(senderID, "kudos_sent", time.Now()); err != nil {
		return nil, err
	}
	if err := s.missionSvc.RecordProgressForEvent(recipientID, "kudos_received", time.Now()); err != nil {
		return nil, err
	}

	return &kudos, nil
}

// ListSent returns kudos sent by a user, most recent first
func (s *KudosService) ListSent(userID uuid.UUID, page, pageSize int) ([]models.Kudos, int64, error) {
	return s.list("sender_id = ?", userID, "Recipient", page, pageSize)
}

// ListReceived returns kudos received by a user, most recent first
func (s *KudosService) ListReceived(userID uuid.UUID, page, pageSize int) ([]models.Kudos, int64, error) {
	return s.list("recipient_id = ?", userID, "Sender", page, pageSize)
}

func (s *KudosService) list(filter string, userID uuid.UUID, preload string, page, pageSize int) ([]models.Kudos, int64, error) {
	var total int64
	if err := s.db.Model(&models.Kudos{}).Where(filter, userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting kudos: %w", err)
	}

	var kudos []models.Kudos
	offset := (page - 1) * pageSize
	if err := s.db.Where(filter, userID).Preload(preload).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&kudos).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding kudos: %w", err)
	}

	return kudos, total, nil
}
