package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/idea"
	"gorm.io/gorm"
)

// IdeaHandler exposes idea submission, browsing, voting and commenting
type IdeaHandler struct {
	ideaSvc *idea.IdeaService
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideaSvc *idea.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaSvc: ideaSvc}
}

// SubmitIdeaRequest represents a new improvement idea
type SubmitIdeaRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
}

// SubmitIdea creates an idea and credits the submission award
func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.ideaSvc.Submit(userID, req.Title, req.Description, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit idea"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"idea": created})
}

// ListIdeas returns ideas, optionally filtered by status
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := models.IdeaStatus(c.Query("status"))

	ideas, total, err := h.ideaSvc.List(status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ideas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas": ideas,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// GetIdea returns a single idea with its votes and comments
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea ID"})
		return
	}

	found, err := h.ideaSvc.Get(ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get idea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"idea": found})
}

// VoteIdea records the caller's vote; one vote per user per idea
func (h *IdeaHandler) VoteIdea(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea ID"})
		return
	}

	vote, err := h.ideaSvc.Vote(ideaID, userID)
	if err != nil {
		if errors.Is(err, idea.ErrAlreadyVoted) {
			c.JSON(http.StatusConflict, gin.H{"error": "you have already voted for this idea"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to vote"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vote": vote})
}

// CommentRequest represents a comment on an idea
type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentIdea adds a comment to an idea
func (h *IdeaHandler) CommentIdea(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea ID"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.ideaSvc.Comment(ideaID, userID, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
