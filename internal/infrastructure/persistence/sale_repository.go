package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForStore finds a sale with its items within a store
func (r *GormSaleRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*sales.Sale, error) {
	return r.findByID(r.db.WithContext(ctx), storeID, id)
}

// FindByIDForStoreLocked finds a sale and takes a FOR UPDATE row lock on it,
// serializing concurrent returns and voids against the same sale until the
// surrounding transaction completes.
func (r *GormSaleRepository) FindByIDForStoreLocked(ctx context.Context, storeID, id uuid.UUID) (*sales.Sale, error) {
	return r.findByID(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		storeID, id,
	)
}

func (r *GormSaleRepository) findByID(query *gorm.DB, storeID, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := query.
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save persists the sale header; items are immutable after creation
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	var model models.SaleModel
	if err := model.FromDomain(sale); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("Items").Save(&model).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
