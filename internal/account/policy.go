package account

import "github.com/shopspring/decimal"

// Policy holds the thresholds used by the post-transaction checks.
type Policy struct {
	// LowBalanceLevel triggers a low balance warning when the balance
	// drops below it.
	LowBalanceLevel decimal.Decimal
	// LargeTransactionLevel triggers a large transaction message when the
	// absolute transaction amount exceeds it.
	LargeTransactionLevel decimal.Decimal
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		LowBalanceLevel:       decimal.RequireFromString("50.00"),
		LargeTransactionLevel: decimal.RequireFromString("9999.99"),
	}
}
