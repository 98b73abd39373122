package sales

import (
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// LineFinancials is the monetary snapshot of one returned line, both
// currency legs computed independently and left unrounded.
type LineFinancials struct {
	Subtotal valueobject.Money
	Discount valueobject.Money
	Total    valueobject.Money
}

// Totals packs the line figures into sale-shaped totals
func (f LineFinancials) Totals() sales.SaleTotals {
	return sales.SaleTotals{
		Subtotal: f.Subtotal,
		Discount: f.Discount,
		Total:    f.Total,
	}
}

// FinancialRecalculator derives the monetary effect of a return. Discounts
// recorded per line are prorated per unit so partial returns carry their
// fair share.
type FinancialRecalculator struct{}

// NewFinancialRecalculator creates a recalculator
func NewFinancialRecalculator() *FinancialRecalculator {
	return &FinancialRecalculator{}
}

// LineFinancials computes the returned subtotal, prorated discount, and
// total for qty units of a sale item. Rounding happens downstream, at the
// persistence edge.
func (c *FinancialRecalculator) LineFinancials(item *sales.SaleItem, qty decimal.Decimal) LineFinancials {
	originalQty := item.Quantity
	if originalQty.IsZero() {
		originalQty = decimal.NewFromInt(1)
	}

	subtotal := item.UnitPrice.Mul(qty)
	discount := item.Discount.Div(originalQty).Mul(qty)

	return LineFinancials{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// ApplyReturn shrinks the sale totals by the returned totals and, when the
// sale carries a debt, resets the debt to the updated sale total. A debt
// whose updated USD total is zero or below flips to paid.
func (c *FinancialRecalculator) ApplyReturn(sale *sales.Sale, debt *sales.Debt, returned sales.SaleTotals) {
	sale.ApplyReturnTotals(returned)
	if debt != nil {
		debt.ResetToSaleTotals(sale.Totals.Total)
	}
}
