package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// DebtStatus represents the settlement state of a pay-later balance
type DebtStatus string

const (
	DebtStatusOpen    DebtStatus = "open"
	DebtStatusPartial DebtStatus = "partial"
	DebtStatusPaid    DebtStatus = "paid"
)

// Debt is the outstanding balance of a fiao (pay-later) sale.
// At most one debt exists per sale.
type Debt struct {
	shared.StoreAggregateRoot
	SaleID     uuid.UUID
	CustomerID *uuid.UUID
	Amount     valueobject.Money
	Status     DebtStatus
}

// ResetToSaleTotals overwrites the debt amount with the sale's updated
// total and recomputes the status. The amount is reset, not decremented:
// payments already collected are not reconciled here (see DESIGN.md).
func (d *Debt) ResetToSaleTotals(total valueobject.Money) {
	d.Amount = total
	if total.Usd().Sign() <= 0 {
		d.Status = DebtStatusPaid
	} else {
		d.Status = DebtStatusOpen
	}
	d.UpdatedAt = time.Now()
}

// DebtPayment records one payment collected against a debt
type DebtPayment struct {
	ID     uuid.UUID
	DebtID uuid.UUID
	Amount valueobject.Money
	Method PaymentMethod
	PaidAt time.Time
	Note   string
}
