package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// SaleTotals holds the aggregate monetary state of a sale. All three
// figures carry both currency legs and are recomputed independently
// per leg.
type SaleTotals struct {
	Subtotal valueobject.Money
	Discount valueobject.Money
	Total    valueobject.Money
}

// Sub subtracts returned totals field by field
func (t SaleTotals) Sub(other SaleTotals) SaleTotals {
	return SaleTotals{
		Subtotal: t.Subtotal.Sub(other.Subtotal),
		Discount: t.Discount.Sub(other.Discount),
		Total:    t.Total.Sub(other.Total),
	}
}

// Add sums totals field by field
func (t SaleTotals) Add(other SaleTotals) SaleTotals {
	return SaleTotals{
		Subtotal: t.Subtotal.Add(other.Subtotal),
		Discount: t.Discount.Add(other.Discount),
		Total:    t.Total.Add(other.Total),
	}
}

// ZeroTotals returns totals with every figure at zero
func ZeroTotals() SaleTotals {
	return SaleTotals{
		Subtotal: valueobject.ZeroMoney(),
		Discount: valueobject.ZeroMoney(),
		Total:    valueobject.ZeroMoney(),
	}
}

// PaymentMethod identifies how a sale was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodMixed    PaymentMethod = "mixed"
	// PaymentMethodFiao is a pay-later sale settled against a Debt record.
	PaymentMethodFiao PaymentMethod = "fiao"
)

// CashPayment holds the cash sub-variant of a payment
type CashPayment struct {
	ReceivedBs  decimal.Decimal `json:"received_bs"`
	ReceivedUsd decimal.Decimal `json:"received_usd"`
	ChangeBs    decimal.Decimal `json:"change_bs"`
}

// CardPayment holds the card sub-variant of a payment
type CardPayment struct {
	Last4    string `json:"last4"`
	AuthCode string `json:"auth_code"`
}

// TransferPayment holds the bank-transfer sub-variant of a payment
type TransferPayment struct {
	Reference string `json:"reference"`
	Bank      string `json:"bank"`
}

// PaymentDetails is a fixed tagged record describing how a sale was paid.
// Exactly the sub-variant matching Method is populated; the rest stay nil.
type PaymentDetails struct {
	Method   PaymentMethod    `json:"method"`
	Cash     *CashPayment     `json:"cash,omitempty"`
	Card     *CardPayment     `json:"card,omitempty"`
	Transfer *TransferPayment `json:"transfer,omitempty"`
}

// IsFiao returns true for pay-later sales
func (p PaymentDetails) IsFiao() bool {
	return p.Method == PaymentMethodFiao
}

// Sale is the aggregate root for a completed retail sale. Totals shrink as
// partial returns are processed; once voided the sale is terminal and
// rejects every further mutation.
type Sale struct {
	shared.StoreAggregateRoot
	Items      []SaleItem
	Totals     SaleTotals
	Payment    PaymentDetails
	InvoiceID  *uuid.UUID
	VoidedAt   *time.Time
	VoidedBy   *uuid.UUID
	VoidReason string
}

// IsVoided returns true once void metadata is set
func (s *Sale) IsVoided() bool {
	return s.VoidedAt != nil
}

// GetItem returns the line item with the given ID, or nil
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// ApplyReturnTotals shrinks the sale totals by the returned amounts.
// Each figure is floored at zero per currency leg to absorb rounding drift.
func (s *Sale) ApplyReturnTotals(returned SaleTotals) {
	updated := s.Totals.Sub(returned)
	s.Totals = SaleTotals{
		Subtotal: updated.Subtotal.Round2().FloorZero(),
		Discount: updated.Discount.Round2().FloorZero(),
		Total:    updated.Total.Round2().FloorZero(),
	}
	s.UpdatedAt = time.Now()
}

// Void stamps the sale with void metadata, making it terminal.
func (s *Sale) Void(userID uuid.UUID, reason string) error {
	if s.IsVoided() {
		return shared.NewDomainError("SALE_VOIDED", "Sale has already been voided")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Voiding user cannot be empty")
	}

	now := time.Now()
	s.VoidedAt = &now
	s.VoidedBy = &userID
	s.VoidReason = reason
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleVoidedEvent(s, userID, reason))

	return nil
}

// SaleItem is a line item of a sale. Quantity may be fractional for
// weight products; serialized products track individual units separately
// through ProductSerial.
type SaleItem struct {
	ID              uuid.UUID
	SaleID          uuid.UUID
	ProductID       uuid.UUID
	VariantID       *uuid.UUID
	LotID           *uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       valueobject.Money
	Discount        valueobject.Money
	IsWeightProduct bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LineSubtotal returns unit price times quantity, unrounded
func (i *SaleItem) LineSubtotal() valueobject.Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// LineTotal returns subtotal minus the recorded discount, unrounded
func (i *SaleItem) LineTotal() valueobject.Money {
	return i.LineSubtotal().Sub(i.Discount)
}
