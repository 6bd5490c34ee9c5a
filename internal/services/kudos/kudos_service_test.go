package kudos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/mission"
	"github.com/kaizenhub/backend/internal/services/points"
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

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PointTransaction{},
		&models.Mission{},
		&models.UserMission{},
		&models.Kudos{},
	))
	return db
}

func newService(t *testing.T) (*KudosService, *points.PointsService, *gorm.DB) {
	db := setupTestDB(t)
	pointsSvc := points.NewPointsService(db)
	missionSvc := mission.NewMissionService(db, pointsSvc)
	return NewKudosService(db, pointsSvc, missionSvc), pointsSvc, db
}

func createUser(t *testing.T, db *gorm.DB) uuid.UUID {
	u := &models.User{
		Email:       uuid.NewString() + "@example.com",
		Password:    "hashed",
		DisplayName: "Test User",
	}
	require.NoError(t, db.Create(u).Error)
	return u.ID
}

func TestSendAwardsBothSides(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	senderID := createUser(t, db)
	recipientID := createUser(t, db)

	kudos, err := svc.Send(senderID, recipientID, "great demo", "teamwork")
	require.NoError(t, err)
	assert.Equal(t, "great demo", kudos.Message)

	senderBalance, err := pointsSvc.Balance(senderID)
	require.NoError(t, err)
	assert.Equal(t, PointsKudosSent, senderBalance)

	recipientBalance, err := pointsSvc.Balance(recipientID)
	require.NoError(t, err)
	assert.Equal(t, PointsKudosReceived, recipientBalance)
}

func TestSendToSelfRejected(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := createUser(t, db)

	_, err := svc.Send(userID, userID, "me me me", "")
	assert.ErrorIs(t, err, ErrSelfKudos)

	balance, err := pointsSvc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestSendToUnknownRecipientFails(t *testing.T) {
	svc, _, db := newService(t)
	senderID := createUser(t, db)

	_, err := svc.Send(senderID, uuid.New(), "hello", "")
	assert.Error(t, err)
}

func TestSendFeedsKudosMissions(t *testing.T) {
	svc, _, db := newService(t)
	senderID := createUser(t, db)
	recipientID := createUser(t, db)

	m := &models.Mission{
		Name:         "Spread the Love",
		TriggerType:  models.TriggerDaily,
		RewardPoints: 25,
		RulesJSON:    `{"event":"kudos_sent","min_count":3}`,
		IsActive:     true,
	}
	require.NoError(t, db.Create(m).Error)

	_, err := svc.Send(senderID, recipientID, "one", "")
	require.NoError(t, err)
	_, err = svc.Send(senderID, recipientID, "two", "")
	require.NoError(t, err)

	var instance models.UserMission
	require.NoError(t, db.First(&instance, "user_id = ? AND mission_id = ?", senderID, m.ID).Error)
	assert.Equal(t, 2, instance.ProgressValue)
	assert.Equal(t, models.MissionStatusActive, instance.Status)
}

func TestSendFeedsRecipientMissions(t *testing.T) {
	svc, _, db := newService(t)
	senderID := createUser(t, db)
	recipientID := createUser(t, db)

	m := &models.Mission{
		Name:         "Appreciated",
		TriggerType:  models.TriggerDaily,
		RewardPoints: 15,
		RulesJSON:    `{"event":"kudos_received","min_count":2}`,
		IsActive:     true,
	}
	require.NoError(t, db.Create(m).Error)

	_, err := svc.Send(senderID, recipientID, "nice work", "")
	require.NoError(t, err)

	// Progress lands on the recipient, not the sender
	var instance models.UserMission
	require.NoError(t, db.First(&instance, "user_id = ? AND mission_id = ?", recipientID, m.ID).Error)
	assert.Equal(t, 1, instance.ProgressValue)

	var count int64
	require.NoError(t, db.Model(&models.UserMission{}).
		Where("user_id = ? AND mission_id = ?", senderID, m.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListSentAndReceived(t *testing.T) {
	svc, _, db := newService(t)
	alice := createUser(t, db)
	bob := createUser(t, db)

	_, err := svc.Send(alice, bob, "thanks for the review", "")
	require.NoError(t, err)
	_, err = svc.Send(bob, alice, "thanks for the fix", "")
	require.NoError(t, err)

	sent, total, err := svc.ListSent(alice, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sent, 1)
	assert.Equal(t, bob, sent[0].RecipientID)

	received, total, err := svc.ListReceived(alice, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, received, 1)
	assert.Equal(t, bob, received[0].SenderID)
}
