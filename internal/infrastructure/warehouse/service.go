package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	appsales "github.com/lacaja/backend/internal/application/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormStockService implements the stock collaborator against the
// warehouse tables. When handed a transaction handle its writes join
// the caller's transaction.
type GormStockService struct {
	db *gorm.DB
}

// NewGormStockService creates a new GormStockService
func NewGormStockService(db *gorm.DB) *GormStockService {
	return &GormStockService{db: db}
}

// DefaultWarehouse resolves the default warehouse of a store, falling
// back to the oldest warehouse when none is flagged as default.
func (s *GormStockService) DefaultWarehouse(ctx context.Context, storeID uuid.UUID) (*appsales.Warehouse, error) {
	var model models.WarehouseModel
	if err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("is_default DESC, created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return &appsales.Warehouse{
		ID:        model.ID,
		Name:      model.Name,
		IsDefault: model.IsDefault,
	}, nil
}

// IncrementStock adds qty units of (product, variant) to a warehouse,
// creating the stock row when it does not exist yet.
func (s *GormStockService) IncrementStock(ctx context.Context, warehouseID, productID uuid.UUID, variantID *uuid.UUID, qty decimal.Decimal, storeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.WarehouseStockModel{}).
			Where("warehouse_id = ? AND product_id = ?", warehouseID, productID)
		if variantID != nil {
			query = query.Where("variant_id = ?", *variantID)
		} else {
			query = query.Where("variant_id IS NULL")
		}

		result := query.Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		now := time.Now()
		return tx.Create(&models.WarehouseStockModel{
			ID:          uuid.New(),
			StoreID:     storeID,
			WarehouseID: warehouseID,
			ProductID:   productID,
			VariantID:   variantID,
			Quantity:    qty,
			CreatedAt:   now,
			UpdatedAt:   now,
		}).Error
	})
}

// Ensure GormStockService implements StockService
var _ appsales.StockService = (*GormStockService)(nil)
