package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository provides persistence for the Sale aggregate
type SaleRepository interface {
	// FindByIDForStore loads a sale with its items, scoped to a store.
	// Returns shared.ErrNotFound when absent.
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Sale, error)
	// FindByIDForStoreLocked behaves like FindByIDForStore but takes a
	// row lock on the sale for the duration of the transaction, serializing
	// concurrent returns against the same sale.
	FindByIDForStoreLocked(ctx context.Context, storeID, id uuid.UUID) (*Sale, error)
	// Save persists the sale header (items are immutable after creation)
	Save(ctx context.Context, sale *Sale) error
}

// SaleReturnRepository provides persistence for immutable return records
type SaleReturnRepository interface {
	// Create persists a new return header with its items
	Create(ctx context.Context, sr *SaleReturn) error
	// FindBySale lists returns recorded against a sale, newest first
	FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]SaleReturn, error)
	// ReturnedQuantityBySaleItem sums returned quantities across all
	// existing returns, grouped by sale item ID.
	ReturnedQuantityBySaleItem(ctx context.Context, saleItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// ProductSerialRepository provides persistence for serialized units
type ProductSerialRepository interface {
	// FindByIDs loads serials by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSerial, error)
	// FindBySaleItem lists serials currently linked to a sale item
	FindBySaleItem(ctx context.Context, saleItemID uuid.UUID) ([]ProductSerial, error)
	// FindSoldBySale lists every serial still sold under a sale
	FindSoldBySale(ctx context.Context, saleID uuid.UUID) ([]ProductSerial, error)
	// Update persists serial state changes
	Update(ctx context.Context, serial *ProductSerial) error
	// ReleaseAllForSale bulk-transitions every serial of a sale to
	// returned, clearing the sale linkage. Used by void.
	ReleaseAllForSale(ctx context.Context, saleID uuid.UUID, at time.Time) error
}

// ProductLotRepository provides persistence for lots and their ledger
type ProductLotRepository interface {
	// FindByID loads a lot. Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductLot, error)
	// Update persists lot counter changes
	Update(ctx context.Context, lot *ProductLot) error
	// AppendMovement appends a row to the lot ledger
	AppendMovement(ctx context.Context, movement *LotMovement) error
}

// DebtRepository provides persistence for pay-later balances
type DebtRepository interface {
	// FindBySale loads the debt of a sale, if any.
	// Returns shared.ErrNotFound when the sale has no debt.
	FindBySale(ctx context.Context, storeID, saleID uuid.UUID) (*Debt, error)
	// CountPayments returns how many payments were ever recorded
	CountPayments(ctx context.Context, debtID uuid.UUID) (int64, error)
	// Update persists debt amount/status changes
	Update(ctx context.Context, debt *Debt) error
	// DeleteWithPayments removes the debt and its payment history
	DeleteWithPayments(ctx context.Context, debtID uuid.UUID) error
}

// FiscalInvoiceRepository provides read access to fiscal documents
type FiscalInvoiceRepository interface {
	// FindBySale lists fiscal documents tied to a sale
	FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]FiscalInvoice, error)
}
