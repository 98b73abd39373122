package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// WarehouseMap resolves which warehouse a (product, variant) of a sale
// originally drew stock from, keyed by movementKey.
type WarehouseMap map[string]uuid.UUID

func movementKey(productID uuid.UUID, variantID *uuid.UUID) string {
	if variantID == nil {
		return productID.String() + ":null"
	}
	return productID.String() + ":" + variantID.String()
}

// Lookup returns the warehouse recorded for the pair, or fallback when the
// historical movements never named one.
func (m WarehouseMap) Lookup(productID uuid.UUID, variantID *uuid.UUID, fallback uuid.UUID) uuid.UUID {
	if id, ok := m[movementKey(productID, variantID)]; ok {
		return id
	}
	return fallback
}

// InventoryReconciler reverses the physical side of a sale line: serial
// release, lot restock, one ledger movement, one stock increment. Exactly
// one movement and one increment per reversed line. The stock collaborator
// comes from the transactional Repos so its writes revert with the rest.
type InventoryReconciler struct {
	logger *zap.Logger
}

// NewInventoryReconciler creates a reconciler
func NewInventoryReconciler(logger *zap.Logger) *InventoryReconciler {
	return &InventoryReconciler{logger: logger}
}

// ResolveWarehouses builds the warehouse map from the sale's historical
// movements. Movements arrive ordered by creation ascending; the earliest
// row naming a warehouse wins per (product, variant).
func (r *InventoryReconciler) ResolveWarehouses(movements []inventory.InventoryMovement) WarehouseMap {
	result := make(WarehouseMap)
	for idx := range movements {
		m := &movements[idx]
		if m.WarehouseID == nil {
			continue
		}
		key := movementKey(m.ProductID, m.VariantID)
		if _, ok := result[key]; !ok {
			result[key] = *m.WarehouseID
		}
	}
	return result
}

// WarehousePlan resolves the historical warehouse map for a sale together
// with the store's default warehouse, the fallback for pairs no movement
// ever named.
func (r *InventoryReconciler) WarehousePlan(ctx context.Context, repos Repos, storeID, saleID uuid.UUID) (WarehouseMap, uuid.UUID, error) {
	movements, err := repos.Movements().FindBySale(ctx, storeID, saleID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to load inventory movements: %w", err)
	}
	warehouses := r.ResolveWarehouses(movements)

	defaultWarehouse, err := repos.Stock().DefaultWarehouse(ctx, storeID)
	if err != nil {
		return nil, uuid.Nil, shared.NewExternalError("warehouse.default_warehouse", err)
	}

	return warehouses, defaultWarehouse.ID, nil
}

// ReverseItemParams describes one line reversal
type ReverseItemParams struct {
	StoreID     uuid.UUID
	SaleID      uuid.UUID
	UserID      uuid.UUID
	ReturnID    *uuid.UUID
	Item        *sales.SaleItem
	Quantity    decimal.Decimal
	SerialIDs   []uuid.UUID
	Note        string
	WarehouseID uuid.UUID
	// Reversal marks void-driven rows; returns leave it false and set
	// ReturnID instead.
	Reversal bool
}

// ReverseItem puts qty units of one sale line back into stock: verifies and
// releases the named serials, restocks the lot with an adjusted lot movement,
// appends one pre-approved adjust row to the inventory ledger, and increments
// warehouse stock through the external collaborator.
func (r *InventoryReconciler) ReverseItem(ctx context.Context, repos Repos, p ReverseItemParams) error {
	if err := r.releaseSerials(ctx, repos, p); err != nil {
		return err
	}

	if err := r.restockLot(ctx, repos, p); err != nil {
		return err
	}

	ref := inventory.MovementRef{
		SaleID:      &p.SaleID,
		SaleItemID:  &p.Item.ID,
		ReturnID:    p.ReturnID,
		Return:      p.ReturnID != nil,
		Reversal:    p.Reversal,
		WarehouseID: &p.WarehouseID,
	}
	movement := inventory.NewReturnMovement(
		p.StoreID, p.Item.ProductID,
		p.Item.VariantID, &p.WarehouseID,
		p.Quantity, ref, p.Note, p.UserID,
	)
	if err := repos.Movements().Append(ctx, movement); err != nil {
		return fmt.Errorf("failed to append inventory movement: %w", err)
	}

	if err := repos.Stock().IncrementStock(ctx, p.WarehouseID, p.Item.ProductID, p.Item.VariantID, p.Quantity, p.StoreID); err != nil {
		return shared.NewExternalError("warehouse.increment_stock", err)
	}

	r.logger.Debug("reversed sale line into stock",
		zap.String("sale_id", p.SaleID.String()),
		zap.String("sale_item_id", p.Item.ID.String()),
		zap.String("warehouse_id", p.WarehouseID.String()),
		zap.String("qty", p.Quantity.String()))

	return nil
}

// releaseSerials verifies every named serial belongs to the line and is
// currently sold, then transitions it to returned.
func (r *InventoryReconciler) releaseSerials(ctx context.Context, repos Repos, p ReverseItemParams) error {
	if len(p.SerialIDs) == 0 {
		return nil
	}

	serials, err := repos.Serials().FindByIDs(ctx, p.SerialIDs)
	if err != nil {
		return fmt.Errorf("failed to load serials: %w", err)
	}
	if len(serials) != len(p.SerialIDs) {
		return shared.NewDomainError("SERIAL_NOT_FOUND", "One or more specified serials were not found")
	}

	for idx := range serials {
		serial := &serials[idx]
		if !serial.BelongsToSaleItem(p.Item.ID) {
			return shared.NewDomainError(
				"SERIAL_MISMATCH",
				fmt.Sprintf("Serial %s does not belong to the sale item", serial.SerialNumber),
			)
		}
		if !serial.IsSold() {
			return shared.NewDomainError(
				"SERIAL_NOT_SOLD",
				fmt.Sprintf("Serial %s is not in sold status", serial.SerialNumber),
			)
		}
		if err := serial.Release(); err != nil {
			return err
		}
		if err := repos.Serials().Update(ctx, serial); err != nil {
			return fmt.Errorf("failed to release serial: %w", err)
		}
	}

	return nil
}

// restockLot puts the quantity back into the line's lot, if it still exists,
// and records an adjusted lot movement. A missing lot is skipped: lots may
// be purged after depletion and the return must still go through.
func (r *InventoryReconciler) restockLot(ctx context.Context, repos Repos, p ReverseItemParams) error {
	if p.Item.LotID == nil {
		return nil
	}

	lot, err := repos.Lots().FindByID(ctx, *p.Item.LotID)
	if err != nil {
		if shared.IsNotFound(err) {
			r.logger.Warn("lot missing during reversal, skipping restock",
				zap.String("lot_id", p.Item.LotID.String()),
				zap.String("sale_id", p.SaleID.String()))
			return nil
		}
		return fmt.Errorf("failed to load lot: %w", err)
	}

	if err := lot.Restock(p.Quantity); err != nil {
		return err
	}
	if err := repos.Lots().Update(ctx, lot); err != nil {
		return fmt.Errorf("failed to update lot: %w", err)
	}

	lotMovement := sales.NewLotMovement(lot.ID, sales.LotMovementAdjusted, p.Quantity, &p.SaleID, p.Note)
	if err := repos.Lots().AppendMovement(ctx, lotMovement); err != nil {
		return fmt.Errorf("failed to append lot movement: %w", err)
	}

	return nil
}
