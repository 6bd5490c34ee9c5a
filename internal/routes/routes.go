package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaizenhub/backend/internal/handlers"
	"github.com/kaizenhub/backend/internal/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth         *handlers.AuthHandler
	Wallet       *handlers.WalletHandler
	Mission      *handlers.MissionHandler
	Idea         *handlers.IdeaHandler
	Kudos        *handlers.KudosHandler
	Reward       *handlers.RewardHandler
	Leaderboard  *handlers.LeaderboardHandler
	Notification *handlers.NotificationHandler
	Admin        *handlers.AdminHandler
}

// RegisterRoutes mounts all API routes on the router
func RegisterRoutes(router *gin.Engine, h Handlers, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Apply tighter rate limiting to auth routes
	authGroup := router.Group("/api/auth")
	authGroup.Use(rateLimiter.AuthRateLimiterMiddleware())
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
	}

	api := router.Group("/api")
	api.Use(rateLimiter.IPRateLimiterMiddleware(), middleware.AuthMiddleware())
	{
		api.GET("/wallet", h.Wallet.GetWallet)
		api.GET("/wallet/transactions", h.Wallet.GetTransactions)

		api.GET("/missions", h.Mission.ListMissions)
		api.POST("/missions/:id/progress", h.Mission.RecordProgress)
		api.POST("/missions/:id/claim", h.Mission.ClaimMission)

		api.POST("/ideas", h.Idea.SubmitIdea)
		api.GET("/ideas", h.Idea.ListIdeas)
		api.GET("/ideas/:id", h.Idea.GetIdea)
		api.POST("/ideas/:id/votes", h.Idea.VoteIdea)
		api.POST("/ideas/:id/comments", h.Idea.CommentIdea)

		api.POST("/kudos", h.Kudos.SendKudos)
		api.GET("/kudos/sent", h.Kudos.ListSentKudos)
		api.GET("/kudos/received", h.Kudos.ListReceivedKudos)

		api.GET("/rewards", h.Reward.ListRewards)
		api.POST("/rewards/:id/redeem", h.Reward.RedeemReward)
		api.GET("/redemptions", h.Reward.ListRedemptions)

		api.GET("/leaderboard", h.Leaderboard.GetLeaderboard)

		api.GET("/notifications", h.Notification.ListNotifications)
		api.PUT("/notifications/:id/read", h.Notification.MarkNotificationRead)
		api.PUT("/notifications/read-all", h.Notification.MarkAllNotificationsRead)
	}

	admin := router.Group("/api/admin")
	admin.Use(rateLimiter.IPRateLimiterMiddleware(), middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/points/adjust", h.Admin.AdjustPoints)

		admin.PUT("/ideas/:id/approve", h.Admin.ApproveIdea)
		admin.PUT("/ideas/:id/implement", h.Admin.ImplementIdea)
		admin.PUT("/ideas/:id/reject", h.Admin.RejectIdea)

		admin.POST("/missions", h.Admin.CreateMission)
		admin.PUT("/missions/:id", h.Admin.UpdateMission)
		admin.DELETE("/missions/:id", h.Admin.DeactivateMission)

		admin.POST("/rewards", h.Admin.CreateReward)
		admin.PUT("/rewards/:id", h.Admin.UpdateReward)

		admin.GET("/redemptions", h.Admin.ListAllRedemptions)
		admin.PUT("/redemptions/:id/fulfill", h.Admin.FulfillRedemption)
		admin.PUT("/redemptions/:id/cancel", h.Admin.CancelRedemption)
	}
}
