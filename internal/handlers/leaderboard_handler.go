package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaizenhub/backend/internal/services/leaderboard"
)

const maxLeaderboardSize = 100

// LeaderboardHandler exposes the top earners ranking
type LeaderboardHandler struct {
	leaderboardSvc *leaderboard.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardSvc *leaderboard.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

// GetLeaderboard returns the top earners ranked by lifetime earned points
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	entries, err := h.leaderboardSvc.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
