package points

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

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.PointTransaction{}))
	return db
}

func TestAwardAndBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	tx, err := svc.Award(userID, 50, models.SourceIdeaCreated, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, tx.Amount)
	assert.Equal(t, models.TransactionKindEarn, tx.Kind)

	balance, err := svc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)
}

func TestAwardRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	_, err := svc.Award(userID, 0, models.SourceIdeaCreated, nil)
	assert.Error(t, err)

	_, err = svc.Award(userID, -10, models.SourceIdeaCreated, nil)
	assert.Error(t, err)

	balance, err := svc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestBalanceIsSumOfSignedAmounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	_, err := svc.Award(userID, 50, models.SourceIdeaCreated, nil)
	require.NoError(t, err)
	_, err = svc.Award(userID, 150, models.SourceMissionCompleted, nil)
	require.NoError(t, err)
	_, err = svc.Deduct(userID, 100, models.SourceRedeem, nil)
	require.NoError(t, err)

	balance, err := svc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}

func TestDeductStoresNegativeAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	tx, err := svc.Deduct(userID, 75, models.SourceRedeem, nil)
	require.NoError(t, err)
	assert.Equal(t, -75, tx.Amount)
	assert.Equal(t, models.TransactionKindSpend, tx.Kind)
}

func TestTotalEarnedIgnoresSpending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	_, err := svc.Award(userID, 200, models.SourceIdeaApproved, nil)
	require.NoError(t, err)
	_, err = svc.Deduct(userID, 150, models.SourceRedeem, nil)
	require.NoError(t, err)

	earned, err := svc.TotalEarned(userID)
	require.NoError(t, err)
	assert.Equal(t, 200, earned)

	balance, err := svc.Balance(userID)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)
}

func TestBalanceIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Award(alice, 30, models.SourceKudosReceived, nil)
	require.NoError(t, err)

	balance, err := svc.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestHistoryPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointsService(db)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.Award(userID, 10, models.SourceKudosSent, nil)
		require.NoError(t, err)
	}

	transactions, total, err := svc.History(userID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, transactions, 3)

	transactions, total, err = svc.History(userID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, transactions, 2)
}
