package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/kaizenhub/backend/internal/jobs"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/queue"
	"github.com/kaizenhub/backend/internal/services/idea"
	"github.com/kaizenhub/backend/internal/services/leaderboard"
	"github.com/kaizenhub/backend/internal/services/points"
	"github.com/kaizenhub/backend/internal/services/reward"
	"gorm.io/gorm"
)

// AdminHandler groups moderation and catalog management endpoints
type AdminHandler struct {
	db             *gorm.DB
	pointsSvc      *points.PointsService
	ideaSvc        *idea.IdeaService
	rewardSvc      *reward.RewardService
	leaderboardSvc *leaderboard.LeaderboardService
	queue          *queue.Queue
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, pointsSvc *points.PointsService, ideaSvc *idea.IdeaService, rewardSvc *reward.RewardService, leaderboardSvc *leaderboard.LeaderboardService, q *queue.Queue) *AdminHandler {
	return &AdminHandler{
		db:             db,
		pointsSvc:      pointsSvc,
		ideaSvc:        ideaSvc,
		rewardSvc:      rewardSvc,
		leaderboardSvc: leaderboardSvc,
		queue:          q,
	}
}

// AdjustPointsRequest represents a manual ledger correction
type AdjustPointsRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustPoints credits or debits a user's ledger manually
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var tx *models.PointTransaction
	if req.Amount >= 0 {
		tx, err = h.pointsSvc.Award(userID, req.Amount, models.SourceAdminAdjust, nil)
	} else {
		tx, err = h.pointsSvc.Deduct(userID, -req.Amount, models.SourceAdminAdjust, nil)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to adjust points"})
		return
	}

	h.leaderboardSvc.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ideaReview routes an idea through one of the admin status transitions
// and notifies the author
func (h *AdminHandler) ideaReview(c *gin.Context, action func(uuid.UUID, uuid.UUID, string) (*models.Idea, error), title string) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea ID"})
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	reviewed, err := action(ideaID, reviewerID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		case errors.Is(err, idea.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "idea is not in a reviewable state"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update idea"})
		}
		return
	}

	_ = jobs.EnqueueNotification(h.queue, reviewed.AuthorID, models.NotificationIdeaStatus,
		title,
		fmt.Sprintf("Your idea %q is now %s", reviewed.Title, reviewed.Status),
		&reviewed.ID)

	c.JSON(http.StatusOK, gin.H{"idea": reviewed})
}

// ApproveIdea moves a submitted idea to APPROVED and awards the author
func (h *AdminHandler) ApproveIdea(c *gin.Context) {
	h.ideaReview(c, h.ideaSvc.Approve, "Your idea was approved")
}

// ImplementIdea moves an approved idea to IMPLEMENTED and awards the author
func (h *AdminHandler) ImplementIdea(c *gin.Context) {
	h.ideaReview(c, h.ideaSvc.Implement, "Your idea was implemented")
}

// RejectIdea moves a submitted idea to REJECTED
func (h *AdminHandler) RejectIdea(c *gin.Context) {
	h.ideaReview(c, h.ideaSvc.Reject, "Your idea was reviewed")
}

// MissionRequest represents a mission definition
type MissionRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	TriggerType  string `json:"trigger_type" binding:"required"`
	RewardPoints int    `json:"reward_points" binding:"required"`
	RulesJSON    string `json:"rules_json"`
	IsActive     *bool  `json:"is_active"`
}

func validTrigger(t string) bool {
	switch models.TriggerType(t) {
	case models.TriggerDaily, models.TriggerWeekly, models.TriggerEvent:
		return true
	}
	return false
}

// CreateMission adds a new mission definition
func (h *AdminHandler) CreateMission(c *gin.Context) {
	var req MissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validTrigger(req.TriggerType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trigger type"})
		return
	}

	m := models.Mission{
		Name:         req.Name,
		Description:  req.Description,
		TriggerType:  models.TriggerType(req.TriggerType),
		RewardPoints: req.RewardPoints,
		RulesJSON:    req.RulesJSON,
		IsActive:     true,
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := h.db.Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create mission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mission": m})
}

// UpdateMission edits an existing mission definition
func (h *AdminHandler) UpdateMission(c *gin.Context) {
	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission ID"})
		return
	}

	var m models.Mission
	if err := h.db.First(&m, "id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get mission"})
		return
	}

	var req MissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validTrigger(req.TriggerType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trigger type"})
		return
	}

	m.Name = req.Name
	m.Description = req.Description
	m.TriggerType = models.TriggerType(req.TriggerType)
	m.RewardPoints = req.RewardPoints
	m.RulesJSON = req.RulesJSON
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := h.db.Save(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mission": m})
}

// DeactivateMission soft-disables a mission without touching existing instances
func (h *AdminHandler) DeactivateMission(c *gin.Context) {
	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission ID"})
		return
	}

	res := h.db.Model(&models.Mission{}).Where("id = ?", missionID).Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate mission"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mission deactivated"})
}

// RewardRequest represents a catalog item definition
type RewardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Cost        int    `json:"cost" binding:"required"`
	Stock       *int   `json:"stock"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

// CreateReward adds a new reward to the catalog
func (h *AdminHandler) CreateReward(c *gin.Context) {
	var req RewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Cost <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost must be positive"})
		return
	}

	r := models.Reward{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Cost:        req.Cost,
		Stock:       -1,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.Stock != nil {
		r.Stock = *req.Stock
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}

	if err := h.db.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reward"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reward": r})
}

// UpdateReward edits an existing catalog item
func (h *AdminHandler) UpdateReward(c *gin.Context) {
	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward ID"})
		return
	}

	var r models.Reward
	if err := h.db.First(&r, "id = ?", rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get reward"})
		return
	}

	var req RewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Cost <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost must be positive"})
		return
	}

	r.Name = req.Name
	r.Slug = slug.Make(req.Name)
	r.Description = req.Description
	r.Cost = req.Cost
	r.ImageURL = req.ImageURL
	if req.Stock != nil {
		r.Stock = *req.Stock
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}

	if err := h.db.Save(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update reward"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reward": r})
}

// redemptionUpdate routes a redemption through fulfil or cancel and
// notifies the redeeming user
func (h *AdminHandler) redemptionUpdate(c *gin.Context, action func(uuid.UUID) (*models.Redemption, error), title, body string) {
	redemptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption ID"})
		return
	}

	redemption, err := action(redemptionID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "redemption not found"})
		case errors.Is(err, reward.ErrInvalidStatus):
			c.JSON(http.StatusConflict, gin.H{"error": "redemption is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update redemption"})
		}
		return
	}

	_ = jobs.EnqueueNotification(h.queue, redemption.UserID, models.NotificationRedemption,
		title,
		fmt.Sprintf("%s (%s)", body, redemption.Reference),
		&redemption.ID)

	c.JSON(http.StatusOK, gin.H{"redemption": redemption})
}

// FulfillRedemption marks a pending redemption as handed out
func (h *AdminHandler) FulfillRedemption(c *gin.Context) {
	h.redemptionUpdate(c, h.rewardSvc.Fulfill, "Redemption fulfilled", "Your reward redemption was fulfilled")
}

// CancelRedemption cancels a pending redemption and refunds the points
func (h *AdminHandler) CancelRedemption(c *gin.Context) {
	h.redemptionUpdate(c, h.rewardSvc.Cancel, "Redemption cancelled", "Your reward redemption was cancelled and your points refunded")
}

// ListAllRedemptions returns every redemption for back-office review
func (h *AdminHandler) ListAllRedemptions(c *gin.Context) {
	var redemptions []models.Redemption
	query := h.db.Preload("Reward").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Limit(200).Find(&redemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list redemptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}
