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

// GormProductLotRepository implements ProductLotRepository using GORM
type GormProductLotRepository struct {
	db *gorm.DB
}

// NewGormProductLotRepository creates a new GormProductLotRepository
func NewGormProductLotRepository(db *gorm.DB) *GormProductLotRepository {
	return &GormProductLotRepository{db: db}
}

// FindByID loads a lot
func (r *GormProductLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.ProductLot, error) {
	var model models.ProductLotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists lot counter changes
func (r *GormProductLotRepository) Update(ctx context.Context, lot *sales.ProductLot) error {
	var model models.ProductLotModel
	model.FromDomain(lot)
	return r.db.WithContext(ctx).Save(&model).Error
}

// AppendMovement appends a row to the lot ledger
func (r *GormProductLotRepository) AppendMovement(ctx context.Context, movement *sales.LotMovement) error {
	var model models.LotMovementModel
	model.FromDomain(movement)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Ensure GormProductLotRepository implements ProductLotRepository
var _ sales.ProductLotRepository = (*GormProductLotRepository)(nil)
