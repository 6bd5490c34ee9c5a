package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func TestCreateAndList(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t))
	userID := uuid.New()

	created, err := svc.Create(userID, models.NotificationKudosReceived, "You received kudos", "well done", nil)
	require.NoError(t, err)
	assert.Nil(t, created.ReadAt)

	notifications, total, err := svc.ListForUser(userID, false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notifications, 1)
	assert.Equal(t, "You received kudos", notifications[0].Title)
}

func TestMarkRead(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t))
	userID := uuid.New()

	created, err := svc.Create(userID, models.NotificationMissionClaim, "Mission claimed", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(userID, created.ID))

	unread, total, err := svc.ListForUser(userID, true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, unread)
}

func TestMarkReadWrongUser(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t))
	userID := uuid.New()

	created, err := svc.Create(userID, models.NotificationIdeaStatus, "Idea approved", "", nil)
	require.NoError(t, err)

	err = svc.MarkRead(uuid.New(), created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkAllRead(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t))
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(userID, models.NotificationRedemption, "Redemption update", "", nil)
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(userID))

	_, total, err := svc.ListForUser(userID, true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestUnreadFilter(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t))
	userID := uuid.New()

	first, err := svc.Create(userID, models.NotificationKudosReceived, "first", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(userID, models.NotificationKudosReceived, "second", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(userID, first.ID))

	unread, total, err := svc.ListForUser(userID, true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Title)
}
