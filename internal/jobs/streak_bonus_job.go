package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/points"
	"gorm.io/gorm"
)

const (
	// StreakDays is how many consecutive active days earn a bonus
	StreakDays = 3

	// StreakBonusPoints is the size of the streak award
	StreakBonusPoints = 15
)

// StreakBonusJob awards a daily bonus to users who earned points on each
// of the preceding consecutive days
type StreakBonusJob struct {
	db        *gorm.DB
	pointsSvc *points.PointsService
	scheduler *gocron.Scheduler
}

// NewStreakBonusJob creates a new streak bonus job
func NewStreakBonusJob(db *gorm.DB, pointsSvc *points.PointsService) *StreakBonusJob {
	return &StreakBonusJob{
		db:        db,
		pointsSvc: pointsSvc,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Schedule runs the streak computation once a day
func (j *StreakBonusJob) Schedule() error {
	if _, err := j.scheduler.Every(1).Day().At("00:10").Do(func() {
		if err := j.Run(time.Now()); err != nil {
			log.Printf("Streak bonus run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule streak bonus job: %w", err)
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (j *StreakBonusJob) Stop() {
	j.scheduler.Stop()
}

// Run awards the streak bonus for every user with EARN activity on each
// of the StreakDays calendar days before now's day. A user gets at most
// one bonus per day; an existing STREAK_BONUS row for today dedupes.
func (j *StreakBonusJob) Run(now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	candidates, err := j.streakCandidates(today)
	if err != nil {
		return err
	}

	for _, userID := range candidates {
		awarded, err := j.alreadyAwarded(userID, today)
		if err != nil {
			return err
		}
		if awarded {
			continue
		}

		if _, err := j.pointsSvc.Award(userID, StreakBonusPoints, models.SourceStreakBonus, nil); err != nil {
			return fmt.Errorf("failed to award streak bonus to %s: %w", userID, err)
		}
		log.Printf("Awarded streak bonus to user %s", userID)
	}

	return nil
}

// streakCandidates returns users with at least one positive transaction
// on every one of the StreakDays days ending yesterday
func (j *StreakBonusJob) streakCandidates(today time.Time) ([]uuid.UUID, error) {
	counts := make(map[uuid.UUID]int)

	for d := 1; d <= StreakDays; d++ {
		dayStart := today.AddDate(0, 0, -d)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var userIDs []uuid.UUID
		err := j.db.Model(&models.PointTransaction{}).
			Where("amount > 0 AND source <> ? AND created_at >= ? AND created_at < ?",
				models.SourceStreakBonus, dayStart, dayEnd).
			Distinct().
			Pluck("user_id", &userIDs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to query active users: %w", err)
		}

		for _, id := range userIDs {
			counts[id]++
		}
	}

	var candidates []uuid.UUID
	for id, c := range counts {
		if c == StreakDays {
			candidates = append(candidates, id)
		}
	}
	return candidates, nil
}

func (j *StreakBonusJob) alreadyAwarded(userID uuid.UUID, today time.Time) (bool, error) {
	var count int64
	err := j.db.Model(&models.PointTransaction{}).
		Where("user_id = ? AND source = ? AND created_at >= ?", userID, models.SourceStreakBonus, today).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing streak bonus: %w", err)
	}
	return count > 0, nil
}
