package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/jobs"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/queue"
	"github.com/kaizenhub/backend/internal/services/kudos"
)

// KudosHandler exposes peer-to-peer recognition
type KudosHandler struct {
	kudosSvc *kudos.KudosService
	queue    *queue.Queue
}

// NewKudosHandler creates a new kudos handler
func NewKudosHandler(kudosSvc *kudos.KudosService, q *queue.Queue) *KudosHandler {
	return &KudosHandler{kudosSvc: kudosSvc, queue: q}
}

// SendKudosRequest represents a recognition message
type SendKudosRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Category    string `json:"category"`
}

// SendKudos sends recognition to a colleague and credits both sides
func (h *KudosHandler) SendKudos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendKudosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient ID"})
		return
	}

	sent, err := h.kudosSvc.Send(userID, recipientID, req.Message, req.Category)
	if err != nil {
		if errors.Is(err, kudos.ErrSelfKudos) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot send kudos to yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send kudos"})
		return
	}

	_ = jobs.EnqueueNotification(h.queue, recipientID, models.NotificationKudosReceived,
		"You received kudos",
		fmt.Sprintf("A colleague recognized you: %s", sent.Message),
		&sent.ID)

	c.JSON(http.StatusCreated, gin.H{"kudos": sent})
}

// ListSentKudos returns kudos the caller has sent
func (h *KudosHandler) ListSentKudos(c *gin.Context) {
	h.list(c, h.kudosSvc.ListSent)
}

// ListReceivedKudos returns kudos the caller has received
func (h *KudosHandler) ListReceivedKudos(c *gin.Context) {
	h.list(c, h.kudosSvc.ListReceived)
}

func (h *KudosHandler) list(c *gin.Context, fetch func(uuid.UUID, int, int) ([]models.Kudos, int64, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := fetch(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list kudos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kudos": items,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
