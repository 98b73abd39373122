package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/shared"
)

// ProductLot is a tracked batch of inventory. RemainingQuantity is a
// mutable counter; every change to it is mirrored by a LotMovement row.
type ProductLot struct {
	shared.BaseEntity
	StoreID           uuid.UUID
	ProductID         uuid.UUID
	LotNumber         string
	RemainingQuantity decimal.Decimal
}

// Restock increments the remaining quantity by qty
func (l *ProductLot) Restock(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	l.RemainingQuantity = l.RemainingQuantity.Add(qty)
	l.Touch()
	return nil
}

// LotMovementType classifies lot ledger rows
type LotMovementType string

const (
	LotMovementConsumed LotMovementType = "consumed"
	LotMovementAdjusted LotMovementType = "adjusted"
	LotMovementExpired  LotMovementType = "expired"
)

// LotMovement is an append-only ledger row recording a change to a lot's
// remaining quantity.
type LotMovement struct {
	ID         uuid.UUID
	LotID      uuid.UUID
	Type       LotMovementType
	QtyDelta   decimal.Decimal
	HappenedAt time.Time
	SaleID     *uuid.UUID
	Note       string
}

// NewLotMovement creates a ledger row for a lot quantity change
func NewLotMovement(lotID uuid.UUID, movementType LotMovementType, qtyDelta decimal.Decimal, saleID *uuid.UUID, note string) *LotMovement {
	return &LotMovement{
		ID:         uuid.New(),
		LotID:      lotID,
		Type:       movementType,
		QtyDelta:   qtyDelta,
		HappenedAt: time.Now(),
		SaleID:     saleID,
		Note:       note,
	}
}
