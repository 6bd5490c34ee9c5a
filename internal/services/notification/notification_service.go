package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationService persists and queries in-app notifications
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create stores a notification for a user
func (s *NotificationService) Create(userID uuid.UUID, kind models.NotificationKind, title, body string, referenceID *uuid.UUID) (*models.Notification, error) {
	n := models.Notification{
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		ReferenceID: referenceID,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("error creating notification: %w", err)
	}
	return &n, nil
}

// ListForUser returns a user's notifications, most recent first
func (s *NotificationService) ListForUser(userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	var notifications []models.Notification
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", now)
	if res.Error != nil {
		return fmt.Errorf("error marking notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's unread notifications as read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	now := time.Now()
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error
}
