package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryMovementRepository provides persistence for the stock ledger
type InventoryMovementRepository interface {
	// Append writes a new ledger row; rows are never updated or deleted
	Append(ctx context.Context, movement *InventoryMovement) error
	// FindBySale lists movements whose ref names the sale, ordered by
	// creation time ascending. Used to reconstruct which warehouse each
	// (product, variant) of a historical sale drew stock from.
	FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]InventoryMovement, error)
}
