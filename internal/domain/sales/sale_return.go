package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// SaleReturn records one accepted return against a sale. It is append-only:
// once persisted neither the header nor its items are ever mutated. A sale
// may accumulate any number of returns as long as per-item quantities hold.
type SaleReturn struct {
	shared.StoreAggregateRoot
	SaleID uuid.UUID
	Reason string
	Totals SaleTotals
	Items  []SaleReturnItem
}

// NewSaleReturn creates a return header. Items are attached via AddItem
// before the aggregate is persisted; afterwards the record is frozen.
func NewSaleReturn(storeID, saleID, createdBy uuid.UUID, reason string) (*SaleReturn, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creating user cannot be empty")
	}

	sr := &SaleReturn{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		SaleID:             saleID,
		Reason:             reason,
		Totals:             ZeroTotals(),
		Items:              make([]SaleReturnItem, 0),
	}
	sr.SetCreatedBy(createdBy)

	return sr, nil
}

// AddItem appends a reversed line to the return and accumulates the header
// totals. The monetary snapshot is rounded to 2 decimals here, at the edge;
// intermediate math upstream stays unrounded.
func (r *SaleReturn) AddItem(
	saleItem *SaleItem,
	qty decimal.Decimal,
	subtotal, discount, total valueobject.Money,
	serialIDs []uuid.UUID,
	note string,
) *SaleReturnItem {
	item := SaleReturnItem{
		ID:         uuid.New(),
		ReturnID:   r.ID,
		SaleItemID: saleItem.ID,
		ProductID:  saleItem.ProductID,
		VariantID:  saleItem.VariantID,
		LotID:      saleItem.LotID,
		Quantity:   qty,
		UnitPrice:  saleItem.UnitPrice,
		Discount:   discount.Round2(),
		Total:      total.Round2(),
		SerialIDs:  serialIDs,
		Note:       note,
		CreatedAt:  time.Now(),
	}
	r.Items = append(r.Items, item)
	r.Totals = r.Totals.Add(SaleTotals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	})
	return &r.Items[len(r.Items)-1]
}

// RoundTotals rounds the accumulated header totals for persistence.
// Called once after the last item is added.
func (r *SaleReturn) RoundTotals() {
	r.Totals = SaleTotals{
		Subtotal: r.Totals.Subtotal.Round2(),
		Discount: r.Totals.Discount.Round2(),
		Total:    r.Totals.Total.Round2(),
	}
}

// TotalReturnedQuantity sums the quantities across all items
func (r *SaleReturn) TotalReturnedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// SaleReturnItem is one reversed line of a return, snapshotting the price,
// discount, and total at the moment the return was accepted.
type SaleReturnItem struct {
	ID         uuid.UUID
	ReturnID   uuid.UUID
	SaleItemID uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	LotID      *uuid.UUID
	Quantity   decimal.Decimal
	UnitPrice  valueobject.Money
	Discount   valueobject.Money
	Total      valueobject.Money
	SerialIDs  []uuid.UUID
	Note       string
	CreatedAt  time.Time
}
