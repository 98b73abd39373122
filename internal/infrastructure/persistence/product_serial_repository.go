package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormProductSerialRepository implements ProductSerialRepository using GORM
type GormProductSerialRepository struct {
	db *gorm.DB
}

// NewGormProductSerialRepository creates a new GormProductSerialRepository
func NewGormProductSerialRepository(db *gorm.DB) *GormProductSerialRepository {
	return &GormProductSerialRepository{db: db}
}

// FindByIDs loads serials by their IDs
func (r *GormProductSerialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.ProductSerial, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ProductSerialModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSerials(rows), nil
}

// FindBySaleItem lists serials currently linked to a sale item
func (r *GormProductSerialRepository) FindBySaleItem(ctx context.Context, saleItemID uuid.UUID) ([]sales.ProductSerial, error) {
	var rows []models.ProductSerialModel
	if err := r.db.WithContext(ctx).
		Where("sale_item_id = ?", saleItemID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSerials(rows), nil
}

// FindSoldBySale lists every serial still sold under a sale
func (r *GormProductSerialRepository) FindSoldBySale(ctx context.Context, saleID uuid.UUID) ([]sales.ProductSerial, error) {
	var rows []models.ProductSerialModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ? AND status = ?", saleID, sales.SerialStatusSold).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSerials(rows), nil
}

// Update persists serial state changes
func (r *GormProductSerialRepository) Update(ctx context.Context, serial *sales.ProductSerial) error {
	var model models.ProductSerialModel
	model.FromDomain(serial)
	// Save with explicit column selection so cleared pointers (sale_id,
	// sale_item_id, sold_at) are written as NULL.
	return r.db.WithContext(ctx).
		Model(&models.ProductSerialModel{}).
		Where("id = ?", model.ID).
		Select("status", "sale_id", "sale_item_id", "sold_at", "updated_at").
		Updates(map[string]any{
			"status":       model.Status,
			"sale_id":      model.SaleID,
			"sale_item_id": model.SaleItemID,
			"sold_at":      model.SoldAt,
			"updated_at":   model.UpdatedAt,
		}).Error
}

// ReleaseAllForSale bulk-transitions every sold serial of a sale to
// returned, clearing the linkage.
func (r *GormProductSerialRepository) ReleaseAllForSale(ctx context.Context, saleID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductSerialModel{}).
		Where("sale_id = ? AND status = ?", saleID, sales.SerialStatusSold).
		Updates(map[string]any{
			"status":       sales.SerialStatusReturned,
			"sale_id":      nil,
			"sale_item_id": nil,
			"sold_at":      nil,
			"updated_at":   at,
		}).Error
}

func toDomainSerials(rows []models.ProductSerialModel) []sales.ProductSerial {
	serials := make([]sales.ProductSerial, len(rows))
	for i := range rows {
		serials[i] = *rows[i].ToDomain()
	}
	return serials
}

// Ensure GormProductSerialRepository implements ProductSerialRepository
var _ sales.ProductSerialRepository = (*GormProductSerialRepository)(nil)
