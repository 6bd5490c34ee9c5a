package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/services/points"
)

// WalletHandler exposes balance, level and transaction history
type WalletHandler struct {
	pointsSvc *points.PointsService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(pointsSvc *points.PointsService) *WalletHandler {
	return &WalletHandler{pointsSvc: pointsSvc}
}

// GetWallet returns the authenticated user's balance and level
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.pointsSvc.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get balance"})
		return
	}

	earned, err := h.pointsSvc.TotalEarned(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get total earned"})
		return
	}

	// Level follows the spendable balance, so redeeming points can move a
	// user back down a level.
	level := points.LevelForPoints(balance)
	c.JSON(http.StatusOK, gin.H{
		"balance":           balance,
		"total_earned":      earned,
		"level":             level,
		"next_level_points": points.NextLevelPoints(level),
	})
}

// GetTransactions returns the authenticated user's transaction history
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	transactions, total, err := h.pointsSvc.History(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get transaction history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// currentUserID reads the authenticated user's ID from the request context
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return uuid.Nil, false
	}

	return userID, true
}
