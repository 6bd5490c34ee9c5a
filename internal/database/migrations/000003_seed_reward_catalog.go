package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/gosimple/slug"
	"github.com/kaizenhub/backend/internal/models"
	"gorm.io/gorm"
)

// SeedRewardCatalog creates the initial reward catalog
func SeedRewardCatalog() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_seed_reward_catalog",
		Migrate: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Reward{}).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count rewards: %w", err)
			}
			if count > 0 {
				return nil
			}

			rewards := []models.Reward{
				{Name: "Coffee Voucher", Description: "A free coffee at the office cafe", Cost: 100, Stock: -1, IsActive: true},
				{Name: "Lunch with the CEO", Description: "One-on-one lunch with the CEO", Cost: 2000, Stock: 2, IsActive: true},
				{Name: "Extra Day Off", Description: "One additional paid day off", Cost: 5000, Stock: 10, IsActive: true},
				{Name: "Company Hoodie", Description: "Limited edition KaizenHub hoodie", Cost: 800, Stock: 50, IsActive: true},
			}

			for i := range rewards {
				rewards[i].Slug = slug.Make(rewards[i].Name)
				if err := tx.Create(&rewards[i]).Error; err != nil {
					return fmt.Errorf("failed to seed reward %q: %w", rewards[i].Name, err)
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Where("1 = 1").Delete(&models.Reward{}).Error
		},
	}
}
