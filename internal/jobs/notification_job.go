package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/queue"
	"github.com/kaizenhub/backend/internal/services/notification"
)

// NotificationJobPayload is the payload for a notification job
type NotificationJobPayload struct {
	UserID      uuid.UUID               `json:"user_id"`
	Kind        models.NotificationKind `json:"kind"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	ReferenceID *uuid.UUID              `json:"reference_id,omitempty"`
}

// RegisterNotificationJobHandlers registers the notification job handler
func RegisterNotificationJobHandlers(q *queue.Queue, notificationSvc *notification.NotificationService) {
	q.RegisterHandler(queue.JobTypeSendNotification, func(ctx context.Context, job queue.Job) error {
		var payload NotificationJobPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal notification job payload: %w", err)
		}

		if _, err := notificationSvc.Create(payload.UserID, payload.Kind, payload.Title, payload.Body, payload.ReferenceID); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
}

// EnqueueNotification enqueues a notification job
func EnqueueNotification(q *queue.Queue, userID uuid.UUID, kind models.NotificationKind, title, body string, referenceID *uuid.UUID) error {
	_, err := q.EnqueueJob(queue.JobTypeSendNotification, NotificationJobPayload{
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		ReferenceID: referenceID,
	})
	return err
}
