package mission

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/points"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no active instance exists for the
	// current period, e.g. after the mission was already claimed
	ErrNotFound = errors.New("no active mission instance for the current period")

	// ErrNotEligible is returned when a claim is attempted on an instance
	// that is missing, still active, or already claimed
	ErrNotEligible = errors.New("mission is not eligible for claiming")
)

// ProgressResult reports the outcome of a progress update
type ProgressResult struct {
	Progress  int  `json:"progress"`
	Target    int  `json:"target"`
	Completed bool `json:"completed"`
}

// MissionView bundles a mission definition with the caller's
// current-period instance for display
type MissionView struct {
	MissionID    uuid.UUID            `json:"mission_id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	TriggerType  models.TriggerType   `json:"trigger_type"`
	Progress     int                  `json:"progress"`
	Target       int                  `json:"target"`
	RewardPoints int                  `json:"reward_points"`
	Status       models.MissionStatus `json:"status"`
	Completed    bool                 `json:"completed"`
	Claimed      bool                 `json:"claimed"`
}

// MissionService tracks per-user, per-period mission progress and gates
// one-time point claims
type MissionService struct {
	db        *gorm.DB
	pointsSvc *points.PointsService
}

// NewMissionService creates a new mission service
func NewMissionService(db *gorm.DB, pointsSvc *points.PointsService) *MissionService {
	return &MissionService{db: db, pointsSvc: pointsSvc}
}

// periodWindow resolves the [start, end) window containing now for a
// trigger type, anchored at the start of now's calendar day. EVENT
// missions share the daily window.
func periodWindow(trigger models.TriggerType, now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch trigger {
	case models.TriggerWeekly:
		return start, start.AddDate(0, 0, 7)
	default:
		return start, start.AddDate(0, 0, 1)
	}
}

// GetOrCreateInstance returns the user's instance for the mission's
// current period, creating it lazily. Concurrent calls within one period
// converge on a single row: the unique index on (user, mission,
// period_start) turns the duplicate insert into a re-fetch of the winner.
func (s *MissionService) GetOrCreateInstance(userID uuid.UUID, mission *models.Mission, now time.Time) (*models.UserMission, error) {
	return s.getOrCreateInstanceTx(s.db, userID, mission, now)
}

func (s *MissionService) getOrCreateInstanceTx(tx *gorm.DB, userID uuid.UUID, mission *models.Mission, now time.Time) (*models.UserMission, error) {
	start, end := periodWindow(mission.TriggerType, now)

	var instance models.UserMission
	err := tx.Where("user_id = ? AND mission_id = ? AND period_start >= ? AND period_start < ?",
		userID, mission.ID, start, end).First(&instance).Error
	if err == nil {
		return &instance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error finding mission instance: %w", err)
	}

	// Snapshot the target and payout: definition edits only reach
	// instances created in later periods.
	instance = models.UserMission{
		UserID:        userID,
		MissionID:     mission.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ProgressValue: 0,
		TargetValue:   ParseRules(mission.RulesJSON).MinCount,
		RewardPoints:  mission.RewardPoints,
		Status:        models.MissionStatusActive,
	}

	if createErr := tx.Create(&instance).Error; createErr != nil {
		// A concurrent request may have created the row first; the unique
		// index rejects ours, so re-fetch the winner.
		var existing models.UserMission
		refetchErr := tx.Where("user_id = ? AND mission_id = ? AND period_start >= ? AND period_start < ?",
			userID, mission.ID, start, end).First(&existing).Error
		if refetchErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("error creating mission instance: %w", createErr)
	}

	return &instance, nil
}

// RecordProgress adds increment to the current period's ACTIVE instance
// and marks it COMPLETED in the same update when progress reaches the
// instance's snapshotted target. A completed or claimed instance is not
// re-incremented: ErrNotFound.
func (s *MissionService) RecordProgress(userID, missionID uuid.UUID, increment int, now time.Time) (*ProgressResult, error) {
	if increment <= 0 {
		increment = 1
	}

	var mission models.Mission
	if err := s.db.First(&mission, "id = ?", missionID).Error; err != nil {
		return nil, fmt.Errorf("error finding mission: %w", err)
	}

	var result *ProgressResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		instance, err := s.getOrCreateInstanceTx(tx, userID, &mission, now)
		if err != nil {
			return err
		}

		if instance.Status != models.MissionStatusActive {
			return ErrNotFound
		}

		// One relative update: the increment lands against the stored
		// value rather than the copy read above, so concurrent events
		// cannot overwrite each other, and the status flip happens in
		// the same statement that reaches the target.
		res := tx.Model(&models.UserMission{}).
			Where("id = ? AND status = ?", instance.ID, models.MissionStatusActive).
			Updates(map[string]interface{}{
				"progress_value": gorm.Expr("progress_value + ?", increment),
				"status": gorm.Expr("CASE WHEN progress_value + ? >= ? THEN ? ELSE status END",
					increment, instance.TargetValue, models.MissionStatusCompleted),
			})
		if res.Error != nil {
			return fmt.Errorf("error updating mission progress: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var updated models.UserMission
		if err := tx.First(&updated, "id = ?", instance.ID).Error; err != nil {
			return fmt.Errorf("error reloading mission instance: %w", err)
		}

		result = &ProgressResult{
			Progress:  updated.ProgressValue,
			Target:    updated.TargetValue,
			Completed: updated.Status == models.MissionStatusCompleted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RecordProgressForEvent records one unit of progress on every active
// mission whose rules match the given event. Instances past ACTIVE are
// skipped; this is how domain events (idea created, kudos sent) feed the
// tracker without the callers knowing mission identity.
func (s *MissionService) RecordProgressForEvent(userID uuid.UUID, event string, now time.Time) error {
	var missions []models.Mission
	if err := s.db.Where("is_active = ?", true).Find(&missions).Error; err != nil {
		return fmt.Errorf("error finding active missions: %w", err)
	}

	for i := range missions {
		if ParseRules(missions[i].RulesJSON).Event != event {
			continue
		}
		if _, err := s.RecordProgress(userID, missions[i].ID, 1, now); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

// Claim converts a COMPLETED instance into a one-time ledger award. The
// COMPLETED->CLAIMED transition is a conditional update on the prior
// status so concurrent claims cannot both credit points; the status
// change and the award commit or roll back together. The payout is the
// instance's snapshotted reward, not the current definition's.
func (s *MissionService) Claim(userID, missionID uuid.UUID, now time.Time) (*models.UserMission, error) {
	var mission models.Mission
	if err := s.db.First(&mission, "id = ?", missionID).Error; err != nil {
		return nil, fmt.Errorf("error finding mission: %w", err)
	}

	start, end := periodWindow(mission.TriggerType, now)

	var instance models.UserMission
	err := s.db.Where("user_id = ? AND mission_id = ? AND period_start >= ? AND period_start < ?",
		userID, missionID, start, end).First(&instance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEligible
		}
		return nil, fmt.Errorf("error finding mission instance: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserMission{}).
			Where("id = ? AND status = ?", instance.ID, models.MissionStatusCompleted).
			Update("status", models.MissionStatusClaimed)
		if res.Error != nil {
			return fmt.Errorf("error claiming mission: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotEligible
		}

		if _, err := s.pointsSvc.AwardWithTx(tx, userID, instance.RewardPoints, models.SourceMissionCompleted, &instance.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	instance.Status = models.MissionStatusClaimed
	return &instance, nil
}

// ListForUser returns the current-period view of every active mission for
// a user, lazily creating instances that do not exist yet
func (s *MissionService) ListForUser(userID uuid.UUID, now time.Time) ([]MissionView, error) {
	var missions []models.Mission
	if err := s.db.Where("is_active = ?", true).Order("created_at ASC").Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("error finding active missions: %w", err)
	}

	views := make([]MissionView, 0, len(missions))
	for i := range missions {
		instance, err := s.GetOrCreateInstance(userID, &missions[i], now)
		if err != nil {
			return nil, err
		}

		views = append(views, MissionView{
			MissionID:    missions[i].ID,
			Name:         missions[i].Name,
			Description:  missions[i].Description,
			TriggerType:  missions[i].TriggerType,
			Progress:     instance.ProgressValue,
			Target:       instance.TargetValue,
			RewardPoints: instance.RewardPoints,
			Status:       instance.Status,
			Completed:    instance.Status == models.MissionStatusCompleted || instance.Status == models.MissionStatusClaimed,
			Claimed:      instance.Status == models.MissionStatusClaimed,
		})
	}

	return views, nil
}
