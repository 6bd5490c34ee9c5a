package reward

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
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
		&models.Reward{},
		&models.Redemption{},
	))
	return db
}

func newService(t *testing.T) (*RewardService, *points.PointsService, *gorm.DB) {
	db := setupTestDB(t)
	pointsSvc := points.NewPointsService(db)
	return NewRewardService(db, pointsSvc), pointsSvc, db
}

func createReward(t *testing.T, db *gorm.DB, cost, stock int) *models.Reward {
	r := &models.Reward{
		Name:     "Coffee Voucher",
		Slug:     "coffee-voucher-" + uuid.NewString()[:8],
		Cost:     cost,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestRedeemDeductsPoints(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 100, -1)

	_, err := pointsSvc.Award(userID, 150, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	redemption, err := svc.Redeem(userID, reward.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, redemption.PointsSpent)
	assert.Equal(t, models.RedemptionStatusPending, redemption.Status)
	assert.NotEmpty(t, redemption.Reference)

	balance, err := pointsSvc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)
}

func TestRedeemInsufficientBalance(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 100, -1)

	_, err := pointsSvc.Award(userID, 60, models.SourceKudosReceived, nil)
	require.NoError(t, err)

	_, err = svc.Redeem(userID, reward.ID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// The failed attempt leaves the ledger untouched
	balance, err := pointsSvc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 60, balance)
}

func TestRedeemDecrementsStock(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 10, 1)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	_, err = svc.Redeem(userID, reward.ID)
	require.NoError(t, err)

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, "id = ?", reward.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)

	_, err = svc.Redeem(userID, reward.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestRedeemUnlimitedStockNeverDecrements(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 10, -1)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Redeem(userID, reward.ID)
		require.NoError(t, err)
	}

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, "id = ?", reward.ID).Error)
	assert.Equal(t, -1, reloaded.Stock)
}

func TestRedeemInactiveReward(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 10, -1)
	require.NoError(t, db.Model(reward).Update("is_active", false).Error)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	_, err = svc.Redeem(userID, reward.ID)
	assert.ErrorIs(t, err, ErrRewardInactive)
}

func TestFulfillPendingRedemption(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 10, -1)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	redemption, err := svc.Redeem(userID, reward.ID)
	require.NoError(t, err)

	fulfilled, err := svc.Fulfill(redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusFulfilled, fulfilled.Status)
	assert.NotNil(t, fulfilled.FulfilledAt)

	// Fulfilling twice is rejected
	_, err = svc.Fulfill(redemption.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelRefundsAndRestoresStock(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 40, 2)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	redemption, err := svc.Redeem(userID, reward.ID)
	require.NoError(t, err)

	balance, err := pointsSvc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 60, balance)

	cancelled, err := svc.Cancel(redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusCancelled, cancelled.Status)

	balance, err = pointsSvc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, "id = ?", reward.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestCancelFulfilledRedemptionFails(t *testing.T) {
	svc, pointsSvc, db := newService(t)
	userID := uuid.New()
	reward := createReward(t, db, 10, -1)

	_, err := pointsSvc.Award(userID, 100, models.SourceMissionCompleted, nil)
	require.NoError(t, err)

	redemption, err := svc.Redeem(userID, reward.ID)
	require.NoError(t, err)

	_, err = svc.Fulfill(redemption.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(redemption.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListActiveRewardsOnly(t *testing.T) {
	svc, _, db := newService(t)
	createReward(t, db, 10, -1)
	inactive := createReward(t, db, 20, -1)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	rewards, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, rewards, 1)
}
