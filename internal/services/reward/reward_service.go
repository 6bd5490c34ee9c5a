package reward

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"github.com/kaizenhub/backend/internal/services/points"
	"github.com/kaizenhub/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientPoints is returned when a user's balance does not
	// cover the reward's cost
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrOutOfStock is returned when the reward has no stock left
	ErrOutOfStock = errors.New("reward is out of stock")

	// ErrRewardInactive is returned for redemptions against a disabled reward
	ErrRewardInactive = errors.New("reward is not active")

	// ErrInvalidStatus is returned when fulfil/cancel does not fit the
	// redemption's current status
	ErrInvalidStatus = errors.New("redemption status does not allow this transition")
)

// RewardService handles the reward catalog and point redemptions. The
// ledger itself carries no balance floor, so the check-then-deduct window
// is serialized per user here.
type RewardService struct {
	db        *gorm.DB
	pointsSvc *points.PointsService
	userLocks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewRewardService creates a new reward service
func NewRewardService(db *gorm.DB, pointsSvc *points.PointsService) *RewardService {
	return &RewardService{db: db, pointsSvc: pointsSvc}
}

// List returns the active reward catalog
func (s *RewardService) List() ([]models.Reward, error) {
	var rewards []models.Reward
	if err := s.db.Where("is_active = ?", true).Order("cost ASC").Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("error finding rewards: %w", err)
	}
	return rewards, nil
}

// Redeem spends a user's points on a reward. Balance is verified before
// deducting, stock is decremented with a conditional update, and the
// redemption row plus the REDEEM ledger entry commit together.
func (s *RewardService) Redeem(userID, rewardID uuid.UUID) (*models.Redemption, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	var reward models.Reward
	if err := s.db.First(&reward, "id = ?", rewardID).Error; err != nil {
		return nil, fmt.Errorf("error finding reward: %w", err)
	}
	if !reward.IsActive {
		return nil, ErrRewardInactive
	}

	var redemption models.Redemption
	err := s.db.Transaction(func(tx *gorm.DB) error {
		balance, err := s.pointsSvc.BalanceWithTx(tx, userID)
		if err != nil {
			return err
		}
		if balance < reward.Cost {
			return ErrInsufficientPoints
		}

		// Negative stock means unlimited; otherwise decrement only while
		// stock remains, so concurrent redemptions cannot oversell.
		if reward.Stock >= 0 {
			res := tx.Model(&models.Reward{}).
				Where("id = ? AND stock > 0", reward.ID).
				UpdateColumn("stock", gorm.Expr("stock - 1"))
			if res.Error != nil {
				return fmt.Errorf("error decrementing stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}
		}

		redemption = models.Redemption{
			UserID:      userID,
			RewardID:    reward.ID,
			PointsSpent: reward.Cost,
			Reference:   utils.GenerateReference("RDM"),
			Status:      models.RedemptionStatusPending,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return fmt.Errorf("error creating redemption: %w", err)
		}

		if _, err := s.pointsSvc.DeductWithTx(tx, userID, reward.Cost, models.SourceRedeem, &redemption.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &redemption, nil
}

// ListRedemptions returns a user's redemptions, most recent first
func (s *RewardService) ListRedemptions(userID uuid.UUID, page, pageSize int) ([]models.Redemption, int64, error) {
	var total int64
	if err := s.db.Model(&models.Redemption{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting redemptions: %w", err)
	}

	var redemptions []models.Redemption
	offset := (page - 1) * pageSize
	if err := s.db.Where("user_id = ?", userID).Preload("Reward").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&redemptions).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding redemptions: %w", err)
	}

	return redemptions, total, nil
}

// Fulfill marks a pending redemption as handed out
func (s *RewardService) Fulfill(redemptionID uuid.UUID) (*models.Redemption, error) {
	now := time.Now()
	res := s.db.Model(&models.Redemption{}).
		Where("id = ? AND status = ?", redemptionID, models.RedemptionStatusPending).
		Updates(map[string]interface{}{
			"status":       models.RedemptionStatusFulfilled,
			"fulfilled_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("error fulfilling redemption: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStatus
	}

	var redemption models.Redemption
	if err := s.db.Preload("Reward").First(&redemption, "id = ?", redemptionID).Error; err != nil {
		return nil, fmt.Errorf("error reloading redemption: %w", err)
	}
	return &redemption, nil
}

// Cancel voids a pending redemption, restores stock, and refunds the
// spent points through an ADMIN_ADJUST award
func (s *RewardService) Cancel(redemptionID uuid.UUID) (*models.Redemption, error) {
	var redemption models.Redemption
	if err := s.db.First(&redemption, "id = ?", redemptionID).Error; err != nil {
		return nil, fmt.Errorf("error finding redemption: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Redemption{}).
			Where("id = ? AND status = ?", redemptionID, models.RedemptionStatusPending).
			Update("status", models.RedemptionStatusCancelled)
		if res.Error != nil {
			return fmt.Errorf("error cancelling redemption: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidStatus
		}

		if err := tx.Model(&models.Reward{}).
			Where("id = ? AND stock >= 0", redemption.RewardID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error; err != nil {
			return fmt.Errorf("error restoring stock: %w", err)
		}

		if _, err := s.pointsSvc.AwardWithTx(tx, redemption.UserID, redemption.PointsSpent, models.SourceAdminAdjust, &redemption.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	redemption.Status = models.RedemptionStatusCancelled
	return &redemption, nil
}

func (s *RewardService) lockFor(userID uuid.UUID) *sync.Mutex {
	lock, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
