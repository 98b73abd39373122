package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse is the slice of warehouse state this engine needs from the
// stock collaborator.
type Warehouse struct {
	ID        uuid.UUID
	Name      string
	IsDefault bool
}

// StockService is the external warehouse/stock collaborator. Both calls
// run inside the enclosing transaction; a failure aborts the whole
// return or void.
type StockService interface {
	// DefaultWarehouse resolves the default (or first) warehouse of a store
	DefaultWarehouse(ctx context.Context, storeID uuid.UUID) (*Warehouse, error)
	// IncrementStock adds qty units of (product, variant) to a warehouse
	IncrementStock(ctx context.Context, warehouseID, productID uuid.UUID, variantID *uuid.UUID, qty decimal.Decimal, storeID uuid.UUID) error
}

// LedgerEntryStatus values used by the accounting collaborator
const LedgerEntryStatusCancelled = "cancelled"

// LedgerEntry is the slice of a journal entry this engine needs
type LedgerEntry struct {
	ID          uuid.UUID
	EntryNumber string
	Status      string
}

// IsCancelled returns true for already-cancelled entries
func (e LedgerEntry) IsCancelled() bool {
	return e.Status == LedgerEntryStatusCancelled
}

// AccountingService is the external accounting collaborator. Entry
// cancellation during a void is blocking: its failure aborts the void
// transaction, unlike the best-effort entry generation used elsewhere.
type AccountingService interface {
	// FindEntriesBySale lists ledger entries generated for a sale
	FindEntriesBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]LedgerEntry, error)
	// CancelEntry cancels one ledger entry on behalf of a user
	CancelEntry(ctx context.Context, storeID, entryID, userID uuid.UUID, reason string) error
}
