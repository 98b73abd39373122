package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormSaleReturnRepository implements SaleReturnRepository using GORM
type GormSaleReturnRepository struct {
	db *gorm.DB
}

// NewGormSaleReturnRepository creates a new GormSaleReturnRepository
func NewGormSaleReturnRepository(db *gorm.DB) *GormSaleReturnRepository {
	return &GormSaleReturnRepository{db: db}
}

// Create persists a new return header with its items
func (r *GormSaleReturnRepository) Create(ctx context.Context, sr *sales.SaleReturn) error {
	var model models.SaleReturnModel
	if err := model.FromDomain(sr); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindBySale lists returns recorded against a sale, newest first
func (r *GormSaleReturnRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]sales.SaleReturn, error) {
	var rows []models.SaleReturnModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND sale_id = ?", storeID, saleID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	returns := make([]sales.SaleReturn, len(rows))
	for i := range rows {
		sr, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		returns[i] = *sr
	}
	return returns, nil
}

// ReturnedQuantityBySaleItem sums returned quantities across all prior
// returns, grouped by sale item.
func (r *GormSaleReturnRepository) ReturnedQuantityBySaleItem(ctx context.Context, saleItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(saleItemIDs))
	if len(saleItemIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		SaleItemID uuid.UUID
		Total      decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SaleReturnItemModel{}).
		Select("sale_item_id, SUM(quantity) AS total").
		Where("sale_item_id IN ?", saleItemIDs).
		Group("sale_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.SaleItemID] = row.Total
	}
	return result, nil
}

// Ensure GormSaleReturnRepository implements SaleReturnRepository
var _ sales.SaleReturnRepository = (*GormSaleReturnRepository)(nil)
