package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies inventory ledger rows
type MovementType string

const (
	MovementTypeSale     MovementType = "sale"
	MovementTypePurchase MovementType = "purchase"
	MovementTypeAdjust   MovementType = "adjust"
	MovementTypeTransfer MovementType = "transfer"
)

// MovementRef links a movement back to the business operation that caused
// it. Stored as JSONB; for historical sales it is the only record of which
// warehouse the stock was drawn from.
type MovementRef struct {
	SaleID      *uuid.UUID `json:"sale_id,omitempty"`
	SaleItemID  *uuid.UUID `json:"sale_item_id,omitempty"`
	ReturnID    *uuid.UUID `json:"return_id,omitempty"`
	Return      bool       `json:"return,omitempty"`
	Reversal    bool       `json:"reversal,omitempty"`
	WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (r MovementRef) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB retrieval
func (r *MovementRef) Scan(value any) error {
	if value == nil {
		*r = MovementRef{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MovementRef", value)
	}
	return json.Unmarshal(data, r)
}

// InventoryMovement is an append-only stock ledger row. Reversals are
// written pre-approved: a return needs no approval step.
type InventoryMovement struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	WarehouseID *uuid.UUID
	Type        MovementType
	QtyDelta    decimal.Decimal
	UnitCostBs  decimal.Decimal
	UnitCostUsd decimal.Decimal
	Note        string
	Ref         MovementRef
	HappenedAt  time.Time
	Approved    bool
	RequestedBy *uuid.UUID
	ApprovedBy  *uuid.UUID
	ApprovedAt  *time.Time
	CreatedAt   time.Time
}

// NewReturnMovement creates a pre-approved adjustment row putting qty back
// into the given warehouse on behalf of a return or void.
func NewReturnMovement(
	storeID, productID uuid.UUID,
	variantID, warehouseID *uuid.UUID,
	qty decimal.Decimal,
	ref MovementRef,
	note string,
	userID uuid.UUID,
) *InventoryMovement {
	now := time.Now()
	return &InventoryMovement{
		ID:          uuid.New(),
		StoreID:     storeID,
		ProductID:   productID,
		VariantID:   variantID,
		WarehouseID: warehouseID,
		Type:        MovementTypeAdjust,
		QtyDelta:    qty,
		UnitCostBs:  decimal.Zero,
		UnitCostUsd: decimal.Zero,
		Note:        note,
		Ref:         ref,
		HappenedAt:  now,
		Approved:    true,
		RequestedBy: &userID,
		ApprovedBy:  &userID,
		ApprovedAt:  &now,
		CreatedAt:   now,
	}
}
