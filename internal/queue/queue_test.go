package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testPayload struct {
	Message string `json:"message"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Job{}))
	return db
}

func TestEnqueueJob(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{Message: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobTypeSendNotification, job.Type)
	assert.Equal(t, JobStatusPending, job.Status)

	var payload testPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "hello", payload.Message)
}

func TestGetJobNotFound(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	_, err := q.GetJob(uuid.NewString())
	assert.Error(t, err)
}

func TestProcessJobSuccess(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	handled := false
	q.RegisterHandler(JobTypeSendNotification, func(ctx context.Context, job Job) error {
		handled = true
		return nil
	})

	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{Message: "hi"})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	assert.True(t, handled)

	job, err = q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, job.Status)
}

func TestProcessJobRetriesThenFails(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	attempts := 0
	q.RegisterHandler(JobTypeSendNotification, func(ctx context.Context, job Job) error {
		attempts++
		return errors.New("boom")
	})

	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{})
	require.NoError(t, err)

	// Drive the job through every retry by hand
	for {
		job, err := q.GetJob(jobID)
		require.NoError(t, err)
		if job.Status != JobStatusPending {
			break
		}
		q.processJob(*job)
	}

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.Equal(t, job.MaxRetries, attempts)
}

func TestStartProcessingRunsPendingJobs(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	var handled atomic.Bool
	q.RegisterHandler(JobTypeSendNotification, func(ctx context.Context, job Job) error {
		handled.Store(true)
		return nil
	})

	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{Message: "background"})
	require.NoError(t, err)

	q.StartProcessing()
	// A second call while running must not spawn another poller
	q.StartProcessing()
	defer q.StopProcessing()

	assert.Eventually(t, func() bool {
		job, err := q.GetJob(jobID)
		return err == nil && job.Status == JobStatusCompleted
	}, 5*time.Second, 50*time.Millisecond)
	assert.True(t, handled.Load())
}

func TestStopProcessingHaltsPolling(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	q.StartProcessing()
	q.StopProcessing()

	// Jobs enqueued after the stop stay pending
	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
}

func TestProcessJobNoHandler(t *testing.T) {
	db := setupTestDB(t)
	q := NewQueue(db)

	jobID, err := q.EnqueueJob(JobTypeSendNotification, testPayload{})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	job, err = q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, job.Status)
}
