package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

const (
	// JobTypeSendNotification fans a domain event out into notification rows
	JobTypeSendNotification JobType = "send_notification"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Error      string          `json:"error,omitempty"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Queue is a database-backed job queue with registered handlers and a
// polling processor
type Queue struct {
	db         *gorm.DB
	handlers   map[JobType]JobHandler
	processing atomic.Bool
}

// NewQueue creates a new queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
	}
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   payloadBytes,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := q.db.Create(&job).Error; err != nil {
		return "", err
	}

	return job.ID.String(), nil
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	var job Job
	err := q.db.Model(&Job{}).Where("id = ?", jobID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// StartProcessing starts the polling goroutine. Calling it again while
// the queue is already running is a no-op.
func (q *Queue) StartProcessing() {
	if !q.processing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		for q.processing.Load() {
			var job Job
			err := q.db.Model(&Job{}).Where("status = ?", JobStatusPending).Order("created_at asc").First(&job).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					log.Printf("Error getting job from queue: %v", err)
				}
				time.Sleep(1 * time.Second)
				continue
			}

			q.processJob(job)
		}
	}()
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("No handler registered for job type: %s", job.Type)
		q.markFailed(job, fmt.Errorf("no handler for job type %s", job.Type))
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusProcessing,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job status: %v", err)
		return
	}

	if err := handler(context.Background(), job); err != nil {
		// Put the job back in the queue until retries run out
		if job.RetryCount+1 < job.MaxRetries {
			if updateErr := q.db.Model(&job).Updates(map[string]interface{}{
				"status":      JobStatusPending,
				"retry_count": job.RetryCount + 1,
				"error":       err.Error(),
				"updated_at":  time.Now(),
			}).Error; updateErr != nil {
				log.Printf("Failed to requeue job: %v", updateErr)
			}
			return
		}

		q.markFailed(job, err)
		log.Printf("Job %s failed: %v", job.ID, err)
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusCompleted,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job result: %v", err)
	}
}

func (q *Queue) markFailed(job Job, err error) {
	if updateErr := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusFailed,
		"error":      err.Error(),
		"updated_at": time.Now(),
	}).Error; updateErr != nil {
		log.Printf("Failed to update job status: %v", updateErr)
	}
}

// StopProcessing stops processing jobs
func (q *Queue) StopProcessing() {
	q.processing.Store(false)
}
