package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point monetary amount. The zero value is zero won.
type Money struct {
	amount decimal.Decimal
}

func Zero() Money {
	return Money{}
}

func FromInt(n int64) Money {
	return Money{amount: decimal.NewFromInt(n)}
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Parse reads a decimal amount from its string form.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

func (m Money) LessThan(o Money) bool {
	return m.amount.LessThan(o.amount)
}

func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 is lossy and exists only for spreadsheet cells; arithmetic stays exact.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

func (m Money) String() string {
	return m.amount.String()
}

// Format renders the amount with the won sign and thousands grouping, e.g. ₩1,234,000.
func (m Money) Format() string {
	s := m.amount.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteRune('₩')
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
