package migrations

import (
	"fmt"
	"os"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/utils"
	"gorm.io/gorm"
)

// SeedDefaultAdmin creates the initial admin account when none exists
func SeedDefaultAdmin() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_seed_default_admin",
		Migrate: func(tx *gorm.DB) error {
			adminEmail := os.Getenv("ADMIN_EMAIL")
			if adminEmail == "" {
				adminEmail = "admin@kaizenhub.io"
			}

			adminPassword := os.Getenv("ADMIN_PASSWORD")
			if adminPassword == "" {
				adminPassword = "change-me-on-first-login"
			}

			var count int64
			if err := tx.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check existing admin: %w", err)
			}
			if count > 0 {
				return nil
			}

			hashed, err := utils.HashPassword(adminPassword)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}

			admin := models.User{
				Email:       adminEmail,
				Password:    hashed,
				DisplayName: "Administrator",
				IsAdmin:     true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create admin user: %w", err)
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			adminEmail := os.Getenv("ADMIN_EMAIL")
			if adminEmail == "" {
				adminEmail = "admin@kaizenhub.io"
			}
			return tx.Where("email = ?", adminEmail).Delete(&models.User{}).Error
		},
	}
}
