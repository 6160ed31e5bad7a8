package account

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseIdentity parses an account or client number.
func ParseIdentity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidIdentity, "%q is not an integer", s)
	}
	return n, nil
}

// ParseAmount parses a transaction amount. Non-numeric input and amounts
// that are not strictly positive both fail with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%q is not numeric", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%s must be positive", Money(d))
	}
	return d, nil
}

// ParseBalance parses an opening balance. Unlike ParseAmount it never
// fails: anything that is not a number opens the account at zero.
func ParseBalance(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
