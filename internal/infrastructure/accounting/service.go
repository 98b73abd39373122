package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	appsales "github.com/lacaja/backend/internal/application/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

const sourceTypeSale = "sale"

// GormAccountingService implements the accounting collaborator against
// the journal_entries table.
type GormAccountingService struct {
	db *gorm.DB
}

// NewGormAccountingService creates a new GormAccountingService
func NewGormAccountingService(db *gorm.DB) *GormAccountingService {
	return &GormAccountingService{db: db}
}

// FindEntriesBySale lists ledger entries generated for a sale
func (s *GormAccountingService) FindEntriesBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]appsales.LedgerEntry, error) {
	var rows []models.JournalEntryModel
	if err := s.db.WithContext(ctx).
		Where("store_id = ? AND source_type = ? AND source_id = ?", storeID, sourceTypeSale, saleID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]appsales.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = appsales.LedgerEntry{
			ID:          row.ID,
			EntryNumber: row.EntryNumber,
			Status:      row.Status,
		}
	}
	return entries, nil
}

// CancelEntry cancels one ledger entry on behalf of a user
func (s *GormAccountingService) CancelEntry(ctx context.Context, storeID, entryID, userID uuid.UUID, reason string) error {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("store_id = ? AND id = ?", storeID, entryID).
		Updates(map[string]any{
			"status":        appsales.LedgerEntryStatusCancelled,
			"cancelled_at":  now,
			"cancelled_by":  userID,
			"cancel_reason": reason,
			"updated_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAccountingService implements AccountingService
var _ appsales.AccountingService = (*GormAccountingService)(nil)
