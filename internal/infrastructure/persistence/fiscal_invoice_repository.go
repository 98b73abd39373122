package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

// GormFiscalInvoiceRepository implements FiscalInvoiceRepository using GORM
type GormFiscalInvoiceRepository struct {
	db *gorm.DB
}

// NewGormFiscalInvoiceRepository creates a new GormFiscalInvoiceRepository
func NewGormFiscalInvoiceRepository(db *gorm.DB) *GormFiscalInvoiceRepository {
	return &GormFiscalInvoiceRepository{db: db}
}

// FindBySale lists fiscal documents tied to a sale
func (r *GormFiscalInvoiceRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]sales.FiscalInvoice, error) {
	var rows []models.FiscalInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sale_id = ?", storeID, saleID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	invoices := make([]sales.FiscalInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Ensure GormFiscalInvoiceRepository implements FiscalInvoiceRepository
var _ sales.FiscalInvoiceRepository = (*GormFiscalInvoiceRepository)(nil)
