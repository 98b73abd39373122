package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	t.Run("legs move independently", func(t *testing.T) {
		a := NewMoneyFromFloats(100, 10)
		b := NewMoneyFromFloats(40, 5)

		sum := a.Add(b)
		assert.Equal(t, "140", sum.Bs().String())
		assert.Equal(t, "15", sum.Usd().String())

		diff := a.Sub(b)
		assert.Equal(t, "60", diff.Bs().String())
		assert.Equal(t, "5", diff.Usd().String())
	})

	t.Run("mul and div scale both legs", func(t *testing.T) {
		m := NewMoneyFromFloats(30, 3).Mul(decimal.NewFromInt(2))
		assert.Equal(t, "60", m.Bs().String())
		assert.Equal(t, "6", m.Usd().String())

		d := m.Div(decimal.NewFromInt(4))
		assert.Equal(t, "15", d.Bs().String())
		assert.Equal(t, "1.5", d.Usd().String())
	})

	t.Run("round2 rounds each leg to cents", func(t *testing.T) {
		m := NewMoneyFromFloats(10.005, 1.004).Round2()
		assert.Equal(t, "10.01", m.Bs().String())
		assert.Equal(t, "1", m.Usd().String())
	})

	t.Run("floor zero clamps negative legs independently", func(t *testing.T) {
		m := NewMoney(decimal.NewFromFloat(-0.01), decimal.NewFromFloat(2)).FloorZero()
		assert.True(t, m.Bs().IsZero())
		assert.Equal(t, "2", m.Usd().String())
	})

	t.Run("zero and equality", func(t *testing.T) {
		assert.True(t, ZeroMoney().IsZero())
		assert.False(t, NewMoneyFromFloats(0, 0.01).IsZero())
		assert.True(t, NewMoneyFromFloats(1, 2).Equal(NewMoney(decimal.NewFromInt(1), decimal.NewFromInt(2))))
	})
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyFromFloats(120.5, 12.05)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equal(decoded))
}
