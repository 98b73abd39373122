package sales

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// QtyTolerance absorbs accumulated decimal drift when comparing a
// requested quantity against the remaining returnable quantity.
var QtyTolerance = decimal.NewFromFloat(0.0001)

// ReturnValidator runs the pre-flight checks shared by returns and voids.
// It never mutates state; every rejection is a typed domain error and is
// final for the request.
type ReturnValidator struct{}

// NewReturnValidator creates a validator
func NewReturnValidator() *ReturnValidator {
	return &ReturnValidator{}
}

// ValidateSale runs the whole-sale checks, in order: the sale must not be
// voided; a sale with an issued fiscal invoice needs an issued credit note
// before anything is reversed; a debt with recorded payments blocks the
// operation until those payments are dealt with elsewhere.
func (v *ReturnValidator) ValidateSale(
	sale *sales.Sale,
	invoices []sales.FiscalInvoice,
	debt *sales.Debt,
	paymentCount int64,
) error {
	if sale.IsVoided() {
		return shared.NewDomainError("SALE_VOIDED", "Sale has already been voided")
	}

	if sales.HasIssuedInvoice(invoices) && !sales.HasIssuedCreditNote(invoices) {
		return shared.NewDomainError(
			"CREDIT_NOTE_REQUIRED",
			"Sale has an issued fiscal invoice; an issued credit note is required first",
		)
	}

	if debt != nil && paymentCount > 0 {
		return shared.NewDomainError(
			"DEBT_HAS_PAYMENTS",
			"Sale has a debt with recorded payments; settle or reverse the payments first",
		)
	}

	return nil
}

// ValidateItem runs the per-line checks for one requested return quantity.
// alreadyReturned is the summed quantity of prior returns for this item;
// soldSerialCount is how many serials are currently sold under the item.
func (v *ReturnValidator) ValidateItem(
	item *sales.SaleItem,
	input ReturnItemInput,
	alreadyReturned decimal.Decimal,
	soldSerialCount int,
) error {
	qty := input.Quantity

	if qty.Sign() <= 0 {
		return shared.NewDomainError(
			"INVALID_QTY",
			fmt.Sprintf("Return quantity must be positive, got %s", qty.String()),
		)
	}

	if !item.IsWeightProduct && !qty.IsInteger() {
		return shared.NewDomainError(
			"INVALID_QTY",
			fmt.Sprintf("Product is sold by unit; quantity %s must be a whole number", qty.String()),
		)
	}

	remaining := item.Quantity.Sub(alreadyReturned)
	if qty.GreaterThan(remaining.Add(QtyTolerance)) {
		return shared.NewDomainError(
			"QTY_EXCEEDS_REMAINING",
			fmt.Sprintf("Return quantity %s exceeds remaining returnable quantity %s", qty.String(), remaining.String()),
		)
	}

	// Serialized items are returned unit by unit: one serial per unit.
	if soldSerialCount > 0 || len(input.SerialIDs) > 0 {
		if int64(len(input.SerialIDs)) != qty.IntPart() || !qty.IsInteger() {
			return shared.NewDomainError(
				"SERIAL_COUNT_MISMATCH",
				fmt.Sprintf("Item requires exactly one serial per returned unit: got %d serials for quantity %s",
					len(input.SerialIDs), qty.String()),
			)
		}
	}

	return nil
}
