package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kaizenhub/backend/internal/models"
	"gorm.io/gorm"
)

// SeedDefaultMissions creates the initial mission catalog
func SeedDefaultMissions() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_seed_default_missions",
		Migrate: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Mission{}).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count missions: %w", err)
			}
			if count > 0 {
				return nil
			}

			missions := []models.Mission{
				{
					Name:         "Daily Contributor",
					Description:  "Submit an improvement idea today",
					TriggerType:  models.TriggerDaily,
					RewardPoints: 10,
					RulesJSON:    `{"event":"idea_created","min_count":1}`,
					IsActive:     true,
				},
				{
					Name:         "Spread the Love",
					Description:  "Send kudos to three colleagues today",
					TriggerType:  models.TriggerDaily,
					RewardPoints: 25,
					RulesJSON:    `{"event":"kudos_sent","min_count":3}`,
					IsActive:     true,
				},
				{
					Name:         "Weekly Innovator",
					Description:  "Submit three improvement ideas this week",
					TriggerType:  models.TriggerWeekly,
					RewardPoints: 100,
					RulesJSON:    `{"event":"idea_created","min_count":3}`,
					IsActive:     true,
				},
				{
					Name:         "Community Voice",
					Description:  "Vote on five ideas this week",
					TriggerType:  models.TriggerWeekly,
					RewardPoints: 50,
					RulesJSON:    `{"event":"idea_voted","min_count":5}`,
					IsActive:     true,
				},
			}

			for i := range missions {
				if err := tx.Create(&missions[i]).Error; err != nil {
					return fmt.Errorf("failed to seed mission %q: %w", missions[i].Name, err)
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Where("1 = 1").Delete(&models.Mission{}).Error
		},
	}
}
