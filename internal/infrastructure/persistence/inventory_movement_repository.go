package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormInventoryMovementRepository implements InventoryMovementRepository using GORM
type GormInventoryMovementRepository struct {
	db *gorm.DB
}

// NewGormInventoryMovementRepository creates a new GormInventoryMovementRepository
func NewGormInventoryMovementRepository(db *gorm.DB) *GormInventoryMovementRepository {
	return &GormInventoryMovementRepository{db: db}
}

// Append writes a new ledger row
func (r *GormInventoryMovementRepository) Append(ctx context.Context, movement *inventory.InventoryMovement) error {
	var model models.InventoryMovementModel
	model.FromDomain(movement)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindBySale lists movements whose ref names the sale, oldest first
func (r *GormInventoryMovementRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]inventory.InventoryMovement, error) {
	var rows []models.InventoryMovementModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND ref->>'sale_id' = ?", storeID, saleID.String()).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]inventory.InventoryMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

// Ensure GormInventoryMovementRepository implements InventoryMovementRepository
var _ inventory.InventoryMovementRepository = (*GormInventoryMovementRepository)(nil)
