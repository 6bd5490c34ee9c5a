package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/jobs"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/queue"
	"github.com/kaizenhub/backend/internal/services/mission"
)

// MissionHandler exposes mission listing, progress and claiming
type MissionHandler struct {
	missionSvc *mission.MissionService
	queue      *queue.Queue
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(missionSvc *mission.MissionService, q *queue.Queue) *MissionHandler {
	return &MissionHandler{missionSvc: missionSvc, queue: q}
}

// ListMissions returns every active mission with the caller's
// current-period progress
func (h *MissionHandler) ListMissions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.missionSvc.ListForUser(userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list missions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": views})
}

// RecordProgressRequest represents a manual progress update
type RecordProgressRequest struct {
	Increment int `json:"increment"`
}

// RecordProgress adds progress to the caller's current-period instance
func (h *MissionHandler) RecordProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission ID"})
		return
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Increment = 1
	}

	result, err := h.missionSvc.RecordProgress(userID, missionID, req.Increment, time.Now())
	if err != nil {
		if errors.Is(err, mission.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active mission instance for the current period"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record progress"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClaimMission converts a completed instance into a point award
func (h *MissionHandler) ClaimMission(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission ID"})
		return
	}

	instance, err := h.missionSvc.Claim(userID, missionID, time.Now())
	if err != nil {
		if errors.Is(err, mission.ErrNotEligible) {
			c.JSON(http.StatusConflict, gin.H{"error": "mission is not eligible for claiming"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim mission"})
		return
	}

	if err := jobs.EnqueueNotification(h.queue, userID, models.NotificationMissionClaim,
		"Mission reward claimed",
		fmt.Sprintf("You claimed your mission reward for the period starting %s", instance.PeriodStart.Format("2006-01-02")),
		&instance.ID); err != nil {
		// The claim already committed; notification delivery is best effort.
		c.JSON(http.StatusOK, gin.H{"instance": instance})
		return
	}

	c.JSON(http.StatusOK, gin.H{"instance": instance})
}
