package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/services/reward"
	"gorm.io/gorm"
)

// RewardHandler exposes the reward catalog and redemptions
type RewardHandler struct {
	rewardSvc *reward.RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardSvc *reward.RewardService) *RewardHandler {
	return &RewardHandler{rewardSvc: rewardSvc}
}

// ListRewards returns the active reward catalog
func (h *RewardHandler) ListRewards(c *gin.Context) {
	rewards, err := h.rewardSvc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// RedeemReward exchanges the caller's points for a catalog item
func (h *RewardHandler) RedeemReward(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward ID"})
		return
	}

	redemption, err := h.rewardSvc.Redeem(userID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, reward.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient points balance"})
		case errors.Is(err, reward.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "reward is out of stock"})
		case errors.Is(err, reward.ErrRewardInactive):
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redeem reward"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"redemption": redemption})
}

// ListRedemptions returns the caller's redemption history
func (h *RewardHandler) ListRedemptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	redemptions, total, err := h.rewardSvc.ListRedemptions(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list redemptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
