package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSale       = "Sale"
	AggregateTypeSaleReturn = "SaleReturn"
)

// Event type constants
const (
	EventTypeSaleVoided        = "SaleVoided"
	EventTypeSaleReturnCreated = "SaleReturnCreated"
)

// SaleVoidedEvent is raised after a sale is terminally voided. It is
// delivered through the outbox after the voiding transaction commits and
// drives downstream replication; delivery failure never undoes the void.
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	VoidedBy   uuid.UUID `json:"voided_by"`
	Reason     string    `json:"reason"`
	TotalBs    string    `json:"total_bs"`
	TotalUsd   string    `json:"total_usd"`
	HadDebt    bool      `json:"had_debt"`
	HadInvoice bool      `json:"had_invoice"`
}

// NewSaleVoidedEvent creates a SaleVoidedEvent from the voided sale
func NewSaleVoidedEvent(sale *Sale, voidedBy uuid.UUID, reason string) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, sale.ID, sale.StoreID),
		SaleID:          sale.ID,
		VoidedBy:        voidedBy,
		Reason:          reason,
		TotalBs:         sale.Totals.Total.Bs().String(),
		TotalUsd:        sale.Totals.Total.Usd().String(),
		HadDebt:         sale.Payment.IsFiao(),
		HadInvoice:      sale.InvoiceID != nil,
	}
}

// EventType returns the event type name
func (e *SaleVoidedEvent) EventType() string {
	return EventTypeSaleVoided
}

// SaleReturnItemInfo carries item data inside return events
type SaleReturnItemInfo struct {
	ItemID     uuid.UUID       `json:"item_id"`
	SaleItemID uuid.UUID       `json:"sale_item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	TotalUsd   decimal.Decimal `json:"total_usd"`
}

// SaleReturnCreatedEvent is raised when a return is accepted
type SaleReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID uuid.UUID            `json:"return_id"`
	SaleID   uuid.UUID            `json:"sale_id"`
	Reason   string               `json:"reason"`
	TotalBs  string               `json:"total_bs"`
	TotalUsd string               `json:"total_usd"`
	Items    []SaleReturnItemInfo `json:"items"`
}

// NewSaleReturnCreatedEvent creates a SaleReturnCreatedEvent
func NewSaleReturnCreatedEvent(sr *SaleReturn) *SaleReturnCreatedEvent {
	items := make([]SaleReturnItemInfo, len(sr.Items))
	for i, item := range sr.Items {
		items[i] = SaleReturnItemInfo{
			ItemID:     item.ID,
			SaleItemID: item.SaleItemID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalUsd:   item.Total.Usd(),
		}
	}
	return &SaleReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReturnCreated, AggregateTypeSaleReturn, sr.ID, sr.StoreID),
		ReturnID:        sr.ID,
		SaleID:          sr.SaleID,
		Reason:          sr.Reason,
		TotalBs:         sr.Totals.Total.Bs().String(),
		TotalUsd:        sr.Totals.Total.Usd().String(),
		Items:           items,
	}
}

// EventType returns the event type name
func (e *SaleReturnCreatedEvent) EventType() string {
	return EventTypeSaleReturnCreated
}
