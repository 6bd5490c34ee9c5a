package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/kaizenhub/backend/internal/config"
	"github.com/kaizenhub/backend/internal/database"
	"github.com/kaizenhub/backend/internal/database/migrations"
	"github.com/kaizenhub/backend/internal/handlers"
	"github.com/kaizenhub/backend/internal/jobs"
	"github.com/kaizenhub/backend/internal/middleware"
	"github.com/kaizenhub/backend/internal/queue"
	"github.com/kaizenhub/backend/internal/routes"
	"github.com/kaizenhub/backend/internal/services/idea"
	"github.com/kaizenhub/backend/internal/services/kudos"
	"github.com/kaizenhub/backend/internal/services/leaderboard"
	"github.com/kaizenhub/backend/internal/services/mission"
	"github.com/kaizenhub/backend/internal/services/notification"
	"github.com/kaizenhub/backend/internal/services/points"
	"github.com/kaizenhub/backend/internal/services/reward"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize database
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed data migrations; schema migration ran inside InitDB
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize services
	pointsSvc := points.NewPointsService(db)
	missionSvc := mission.NewMissionService(db, pointsSvc)
	ideaSvc := idea.NewIdeaService(db, pointsSvc, missionSvc)
	kudosSvc := kudos.NewKudosService(db, pointsSvc, missionSvc)
	rewardSvc := reward.NewRewardService(db, pointsSvc)
	leaderboardSvc := leaderboard.NewLeaderboardService(db, redisClient)
	notificationSvc := notification.NewNotificationService(db)

	// Initialize job queue and register handlers
	jobQueue := queue.NewQueue(db)
	jobs.RegisterNotificationJobHandlers(jobQueue, notificationSvc)
	jobQueue.StartProcessing()

	// Schedule the daily streak bonus sweep
	streakJob := jobs.NewStreakBonusJob(db, pointsSvc)
	if err := streakJob.Schedule(); err != nil {
		log.Fatalf("Failed to schedule streak bonus job: %v", err)
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(10, 5, 20, 10)

	// Initialize router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Register routes
	routes.RegisterRoutes(router, routes.Handlers{
		Auth:         handlers.NewAuthHandler(db),
		Wallet:       handlers.NewWalletHandler(pointsSvc),
		Mission:      handlers.NewMissionHandler(missionSvc, jobQueue),
		Idea:         handlers.NewIdeaHandler(ideaSvc),
		Kudos:        handlers.NewKudosHandler(kudosSvc, jobQueue),
		Reward:       handlers.NewRewardHandler(rewardSvc),
		Leaderboard:  handlers.NewLeaderboardHandler(leaderboardSvc),
		Notification: handlers.NewNotificationHandler(notificationSvc),
		Admin:        handlers.NewAdminHandler(db, pointsSvc, ideaSvc, rewardSvc, leaderboardSvc, jobQueue),
	}, rateLimiter)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		log.Printf("KaizenHub API server running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	streakJob.Stop()
	jobQueue.StopProcessing()
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
