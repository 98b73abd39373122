package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable dual-currency amount. Every monetary value in the
// system carries a bolívar leg and a US dollar leg that are computed
// independently; they are never converted into each other here.
type Money struct {
	bs  decimal.Decimal
	usd decimal.Decimal
}

// NewMoney creates a Money from both currency legs
func NewMoney(bs, usd decimal.Decimal) Money {
	return Money{bs: bs, usd: usd}
}

// NewMoneyFromFloats creates a Money from float64 legs
func NewMoneyFromFloats(bs, usd float64) Money {
	return Money{bs: decimal.NewFromFloat(bs), usd: decimal.NewFromFloat(usd)}
}

// ZeroMoney returns a Money with both legs at zero
func ZeroMoney() Money {
	return Money{bs: decimal.Zero, usd: decimal.Zero}
}

// Bs returns the bolívar leg
func (m Money) Bs() decimal.Decimal {
	return m.bs
}

// Usd returns the US dollar leg
func (m Money) Usd() decimal.Decimal {
	return m.usd
}

// Add returns a new Money with both legs summed
func (m Money) Add(other Money) Money {
	return Money{bs: m.bs.Add(other.bs), usd: m.usd.Add(other.usd)}
}

// Sub returns a new Money with both legs subtracted
func (m Money) Sub(other Money) Money {
	return Money{bs: m.bs.Sub(other.bs), usd: m.usd.Sub(other.usd)}
}

// Mul returns a new Money with both legs multiplied by factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{bs: m.bs.Mul(factor), usd: m.usd.Mul(factor)}
}

// Div returns a new Money with both legs divided by divisor.
// Panics if divisor is zero; callers guard against zero quantities upstream.
func (m Money) Div(divisor decimal.Decimal) Money {
	return Money{bs: m.bs.Div(divisor), usd: m.usd.Div(divisor)}
}

// Round2 returns a new Money with both legs rounded to 2 decimal places
func (m Money) Round2() Money {
	return Money{bs: m.bs.Round(2), usd: m.usd.Round(2)}
}

// FloorZero clamps negative legs to zero. Used to absorb rounding drift
// when shrinking sale totals.
func (m Money) FloorZero() Money {
	out := m
	if out.bs.IsNegative() {
		out.bs = decimal.Zero
	}
	if out.usd.IsNegative() {
		out.usd = decimal.Zero
	}
	return out
}

// IsZero returns true if both legs are zero
func (m Money) IsZero() bool {
	return m.bs.IsZero() && m.usd.IsZero()
}

// Equal returns true if both legs match
func (m Money) Equal(other Money) bool {
	return m.bs.Equal(other.bs) && m.usd.Equal(other.usd)
}

// String returns "bs/usd" with two decimal places per leg
func (m Money) String() string {
	return fmt.Sprintf("%s Bs / %s USD", m.bs.StringFixed(2), m.usd.StringFixed(2))
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bs  string `json:"bs"`
		Usd string `json:"usd"`
	}{
		Bs:  m.bs.String(),
		Usd: m.usd.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Bs  string `json:"bs"`
		Usd string `json:"usd"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bs, err := decimal.NewFromString(v.Bs)
	if err != nil {
		return fmt.Errorf("invalid bs amount: %w", err)
	}
	usd, err := decimal.NewFromString(v.Usd)
	if err != nil {
		return fmt.Errorf("invalid usd amount: %w", err)
	}
	m.bs = bs
	m.usd = usd
	return nil
}
