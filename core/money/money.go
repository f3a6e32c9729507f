// Package money converts between currency strings and the exact
// rational amounts the bracket engine computes with.
//
// decimal handles the lexing and the final display rounding; everything
// in between stays a big.Rat so that division never rounds.
package money

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"relocation-cost/internal/errors"
)

// Parse converts a currency string such as "$85,000.50" or "85000.5"
// into an exact non-negative rational amount.
func Parse(s string) (*big.Rat, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return nil, errors.Input("empty income amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, errors.Parsing("invalid currency amount "+s, err)
	}
	if d.IsNegative() {
		return nil, errors.Newf(errors.TypeInput, "income amount must not be negative: %s", s)
	}
	return d.Rat(), nil
}

// ParseRat converts a plain decimal string ("0.1463", "9875") into an
// exact rational. Used for rates and separators in table definitions,
// where a float literal would already have lost precision.
func ParseRat(s string) (*big.Rat, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Parsing("invalid decimal value "+s, err)
	}
	return d.Rat(), nil
}

// Format renders an amount as a dollar string rounded to cents,
// with thousands separators: 1234567.891 -> "$1,234,567.89".
func Format(r *big.Rat) string {
	d := toDecimal(r, 2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	whole, cents, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(cents)
	return b.String()
}

// FormatExact renders the full rational value without rounding,
// as a decimal when the denominator allows it and as a fraction
// otherwise. Used for the raw line of the CLI output.
func FormatExact(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	d := toDecimal(r, 12)
	if d.Rat().Cmp(r) == 0 {
		return d.String()
	}
	return r.RatString()
}

// RemainderCents returns the fraction of a cent left after rounding the
// amount down to whole cents. Exact inversion routinely produces such
// residues and the output reports them rather than hiding them.
func RemainderCents(r *big.Rat) *big.Rat {
	cents := new(big.Rat).Mul(r, big.NewRat(100, 1))
	floor := new(big.Int).Quo(cents.Num(), cents.Denom())
	return new(big.Rat).Sub(cents, new(big.Rat).SetInt(floor))
}

func toDecimal(r *big.Rat, places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, places)
}
