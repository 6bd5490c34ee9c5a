package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.PointTransaction{}))
	return db
}

func walletRequest(t *testing.T, h *WalletHandler, userID uuid.UUID) (int, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	c.Set("user_id", userID.String())

	h.GetWallet(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestGetWalletLevelFollowsBalance(t *testing.T) {
	db := setupTestDB(t)
	pointsSvc := points.NewPointsService(db)
	h := NewWalletHandler(pointsSvc)
	userID := uuid.New()

	_, err := pointsSvc.Award(userID, 50, models.SourceIdeaCreated, nil)
	require.NoError(t, err)
	_, err = pointsSvc.Award(userID, 150, models.SourceMissionCompleted, nil)
	require.NoError(t, err)
	_, err = pointsSvc.Deduct(userID, 100, models.SourceRedeem, nil)
	require.NoError(t, err)

	code, body := walletRequest(t, h, userID)
	require.Equal(t, http.StatusOK, code)

	// Spending moved the balance below the level 2 threshold, so the
	// level is recomputed downward.
	assert.Equal(t, float64(100), body["balance"])
	assert.Equal(t, float64(200), body["total_earned"])
	assert.Equal(t, float64(1), body["level"])
	assert.Equal(t, float64(200), body["next_level_points"])
}

func TestGetWalletLevelBeforeSpending(t *testing.T) {
	db := setupTestDB(t)
	pointsSvc := points.NewPointsService(db)
	h := NewWalletHandler(pointsSvc)
	userID := uuid.New()

	_, err := pointsSvc.Award(userID, 200, models.SourceIdeaApproved, nil)
	require.NoError(t, err)

	code, body := walletRequest(t, h, userID)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, float64(200), body["balance"])
	assert.Equal(t, float64(2), body["level"])
	assert.Equal(t, float64(500), body["next_level_points"])
}

func TestGetWalletEmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	h := NewWalletHandler(points.NewPointsService(db))

	code, body := walletRequest(t, h, uuid.New())
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, float64(0), body["balance"])
	assert.Equal(t, float64(1), body["level"])
}
