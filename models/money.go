package models

import (
	"fmt"
	"math"

	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fractional digits carried by drawer amounts.
const MoneyPrecision = 2

// Money is a fixed-point decimal amount with two fractional digits.
// The embedded decimal provides sql Valuer/Scanner and JSON encoding, so Money
// columns are declared as decimal(12,2) and never pass through a float.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

func ZeroMoney() Money {
	return Money{decimal.Zero}
}

// MoneyFromString parses external monetary input.
// Malformed, non-finite or too-precise input is ErrorInvalidAmount.
func MoneyFromString(value string) (Money, error) {
	d, err := utils.ParseDecimal(value)
	if err != nil {
		return ZeroMoney(), fmt.Errorf("%w: %v", utils.ErrorInvalidAmount, err)
	}
	if d.Exponent() < -MoneyPrecision && !d.Equal(d.Round(MoneyPrecision)) {
		return ZeroMoney(), fmt.Errorf("%w: more than %d fractional digits: %s", utils.ErrorInvalidAmount, MoneyPrecision, value)
	}
	return Money{d}, nil
}

// MoneyFromFloat guards the float boundary: NaN/Inf and values that do not
// round-trip at two fractional digits are ErrorInvalidAmount.
func MoneyFromFloat(value float64) (Money, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ZeroMoney(), fmt.Errorf("%w: non-finite value", utils.ErrorInvalidAmount)
	}
	d := decimal.NewFromFloat(value)
	if !d.Equal(d.Round(MoneyPrecision)) {
		return ZeroMoney(), fmt.Errorf("%w: more than %d fractional digits: %v", utils.ErrorInvalidAmount, MoneyPrecision, value)
	}
	return Money{d}, nil
}

// Validate guards amounts that arrived through JSON binding (the decoder
// accepts any decimal): more than two fractional digits is unsupported.
func (m Money) Validate() error {
	if m.Exponent() < -MoneyPrecision && !m.Equal(Money{m.Round(MoneyPrecision)}) {
		return fmt.Errorf("%w: more than %d fractional digits: %s", utils.ErrorInvalidAmount, MoneyPrecision, m.String())
	}
	return nil
}

// MustMoney parses a literal amount. For tests and defaults only.
func MustMoney(value string) Money {
	m, err := MoneyFromString(value)
	utils.ErrorPanic(err)
	return m
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{m.Decimal.Sub(o.Decimal)}
}

func (m Money) Neg() Money {
	return Money{m.Decimal.Neg()}
}

func (m Money) Abs() Money {
	return Money{m.Decimal.Abs()}
}

func (m Money) Cmp(o Money) int {
	return m.Decimal.Cmp(o.Decimal)
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) GreaterThan(o Money) bool {
	return m.Decimal.GreaterThan(o.Decimal)
}

func (m Money) LessThan(o Money) bool {
	return m.Decimal.LessThan(o.Decimal)
}

// SumMoney adds a sequence without intermediate rounding.
func SumMoney(items []Money) Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Decimal)
	}
	return Money{total}
}
