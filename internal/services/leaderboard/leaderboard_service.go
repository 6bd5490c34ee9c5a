package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/points"
	"gorm.io/gorm"
)

// cacheTTL bounds how stale a cached leaderboard may get
const cacheTTL = 60 * time.Second

// Entry is one row on the leaderboard. Rank trend is intentionally not
// reported; there is no meaningful delta to compute from a single total.
type Entry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Points      int       `json:"points"`
	Level       int       `json:"level"`
}

// LeaderboardService ranks users by total earned points, caching results
// in Redis for a short window
type LeaderboardService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(db *gorm.DB, cache *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, cache: cache}
}

// Top returns the highest-earning users. Only positive amounts count, so
// spending points does not move a user down the board.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var entries []Entry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	type row struct {
		UserID      uuid.UUID
		DisplayName string
		AvatarURL   string
		Points      int
		Balance     int
	}

	// Rank by earned points, but derive the level from the signed
	// balance so it matches the wallet view.
	var rows []row
	err := s.db.Model(&models.PointTransaction{}).
		Select("point_transactions.user_id, users.display_name, users.avatar_url, "+
			"SUM(CASE WHEN point_transactions.amount > 0 THEN point_transactions.amount ELSE 0 END) AS points, "+
			"SUM(point_transactions.amount) AS balance").
		Joins("JOIN users ON users.id = point_transactions.user_id").
		Group("point_transactions.user_id, users.display_name, users.avatar_url").
		Order("points DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, Entry{
			Rank:        i + 1,
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
			Points:      r.Points,
			Level:       points.LevelForPoints(r.Balance),
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
				log.Printf("Failed to cache leaderboard: %v", err)
			}
		}
	}

	return entries, nil
}

// Invalidate drops cached leaderboards, used after bulk point adjustments
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "leaderboard:top:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to invalidate leaderboard key %s: %v", iter.Val(), err)
		}
	}
}
