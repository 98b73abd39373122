package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormDebtRepository implements DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// FindBySale loads the debt of a sale, if any
func (r *GormDebtRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) (*sales.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sale_id = ?", storeID, saleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountPayments returns how many payments were ever recorded against a debt
func (r *GormDebtRepository) CountPayments(ctx context.Context, debtID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DebtPaymentModel{}).
		Where("debt_id = ?", debtID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update persists debt amount/status changes
func (r *GormDebtRepository) Update(ctx context.Context, debt *sales.Debt) error {
	var model models.DebtModel
	model.FromDomain(debt)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteWithPayments removes the debt and its payment history
func (r *GormDebtRepository) DeleteWithPayments(ctx context.Context, debtID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("debt_id = ?", debtID).
			Delete(&models.DebtPaymentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DebtModel{}, "id = ?", debtID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormDebtRepository implements DebtRepository
var _ sales.DebtRepository = (*GormDebtRepository)(nil)
