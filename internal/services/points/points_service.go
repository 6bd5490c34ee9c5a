package points

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaizenhub/backend/internal/models"
	"gorm.io/gorm"
)

// PointsService maintains the append-only ledger of point movements.
// Balance is always derived by aggregation, never stored, so awards and
// deductions are pure appends with no read-modify-write on a counter.
type PointsService struct {
	db *gorm.DB
}

// NewPointsService creates a new points service
func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

// Award records an EARN transaction for a user. The amount must be a
// positive magnitude. User existence is the caller's responsibility.
func (s *PointsService) Award(userID uuid.UUID, amount int, source models.PointSource, referenceID *uuid.UUID) (*models.PointTransaction, error) {
	return s.AwardWithTx(s.db, userID, amount, source, referenceID)
}

// AwardWithTx records an EARN transaction using an existing transaction
func (s *PointsService) AwardWithTx(tx *gorm.DB, userID uuid.UUID, amount int, source models.PointSource, referenceID *uuid.UUID) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("award amount must be positive")
	}

	transaction := models.PointTransaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        models.TransactionKindEarn,
		Source:      source,
		ReferenceID: referenceID,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("error creating point transaction: %w", err)
	}

	return &transaction, nil
}

// Deduct records a SPEND transaction for a user. The amount argument is a
// positive magnitude and is stored negated. No balance check happens here;
// the redemption flow verifies sufficiency before calling.
func (s *PointsService) Deduct(userID uuid.UUID, amount int, source models.PointSource, referenceID *uuid.UUID) (*models.PointTransaction, error) {
	return s.DeductWithTx(s.db, userID, amount, source, referenceID)
}

// DeductWithTx records a SPEND transaction using an existing transaction
func (s *PointsService) DeductWithTx(tx *gorm.DB, userID uuid.UUID, amount int, source models.PointSource, referenceID *uuid.UUID) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("deduction amount must be positive")
	}

	transaction := models.PointTransaction{
		UserID:      userID,
		Amount:      -amount,
		Kind:        models.TransactionKindSpend,
		Source:      source,
		ReferenceID: referenceID,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("error creating point transaction: %w", err)
	}

	return &transaction, nil
}

// Balance returns the sum of all transaction amounts for a user, 0 when
// the user has no transactions
func (s *PointsService) Balance(userID uuid.UUID) (int, error) {
	return s.BalanceWithTx(s.db, userID)
}

// BalanceWithTx returns the balance using an existing transaction
func (s *PointsService) BalanceWithTx(tx *gorm.DB, userID uuid.UUID) (int, error) {
	var balance int64
	err := tx.Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("error computing balance: %w", err)
	}

	return int(balance), nil
}

// TotalEarned returns the sum of positive transaction amounts for a user,
// the figure leaderboards and levels rank on
func (s *PointsService) TotalEarned(userID uuid.UUID) (int, error) {
	var total int64
	err := s.db.Model(&models.PointTransaction{}).
		Where("user_id = ? AND amount > 0", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("error computing total earned: %w", err)
	}

	return int(total), nil
}

// History returns a page of a user's transactions, most recent first
func (s *PointsService) History(userID uuid.UUID, page, pageSize int) ([]models.PointTransaction, int64, error) {
	var transactions []models.PointTransaction
	var total int64

	if err := s.db.Model(&models.PointTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting transactions: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding transactions: %w", err)
	}

	return transactions, total, nil
}
