// Package money handles the decimal strings the API uses for every monetary field.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid decimal amount")
	ErrNonPositive    = errors.New("amount must be greater than zero")
	ErrTooManyDecimal = errors.New("amount has more than two fraction digits")
)

// Parse reads a plain decimal string such as "1000000" or "1250.50".
// Exponent notation is rejected.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && !(i == 0 && r == '-') {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ValidateAskPrice accepts positive amounts with at most two fraction digits
// and returns the canonical string sent to the server.
func ValidateAskPrice(s string) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	if d.Sign() <= 0 {
		return "", ErrNonPositive
	}
	if d.Exponent() < -2 {
		return "", ErrTooManyDecimal
	}
	return Canonical(d), nil
}

// Canonical renders whole amounts without fraction digits and the rest with two
func Canonical(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// Compare returns -1, 0 or +1 comparing a and b; unparsable values sort last
func Compare(a, b string) int {
	da, errA := Parse(a)
	db, errB := Parse(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return da.Cmp(db)
}

// Format renders an amount with two fraction digits and thousands grouping,
// e.g. "1000000" -> "1,000,000.00". Unparsable input is returned unchanged.
func Format(s string) string {
	d, err := Parse(s)
	if err != nil {
		return s
	}
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
