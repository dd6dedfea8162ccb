// Package currency parses and formats shelf prices.
package currency

import (
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// Amount is money in dollars with exact decimal arithmetic.
type Amount = decimal.Decimal

var Zero = decimal.Zero

const centPlaces = 2

// ParsePrice accepts catalog price cells like "$2.50", "2.5", " $1,299.00 ".
func ParsePrice(s string) (Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.Replace(clean, ",", "", -1)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return Zero, errors.NotValidf("price empty")
	}
	a, err := decimal.NewFromString(clean)
	if err != nil {
		return Zero, errors.NotValidf("price=%q", s)
	}
	if a.IsNegative() {
		return Zero, errors.NotValidf("price=%q negative", s)
	}
	return a, nil
}

// ParsePercent accepts "8.25", "8.25%", " 8 % ".
func ParsePercent(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.Replace(s, "%", "", -1))
	if clean == "" {
		return Zero, errors.NotValidf("percent empty")
	}
	p, err := decimal.NewFromString(clean)
	if err != nil {
		return Zero, errors.NotValidf("percent=%q", s)
	}
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return Zero, errors.NotValidf("percent=%q out of range", s)
	}
	return p, nil
}

// Cents rounds half away from zero to whole cents.
func Cents(a Amount) Amount { return a.Round(centPlaces) }

func Format(a Amount) string { return "$" + Cents(a).StringFixed(centPlaces) }

// Percent of a, rounded to cents.
func Percent(a Amount, rate decimal.Decimal) Amount {
	return Cents(a.Mul(rate).Div(decimal.NewFromInt(100)))
}

// CentsInt is a in whole cents, for integer wire formats.
func CentsInt(a Amount) int64 { return Cents(a).Shift(centPlaces).IntPart() }
