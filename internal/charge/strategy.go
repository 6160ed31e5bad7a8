// Package charge provides the service charge strategies that accounts
// delegate their fee calculation to.
//
// A strategy only reads the public state of an account and never mutates it,
// so calling Charge twice without an intervening balance change returns the
// same value.
package charge

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeniorTenure is ten years expressed the way the fee schedule counts them
// (365.25 days per year).
const SeniorTenure = 87660 * time.Hour

// Account is the read-only view of an account a strategy works from.
type Account interface {
	Balance() decimal.Decimal
}

// Tenured is implemented by accounts that know when they were opened.
type Tenured interface {
	OpenedDate() time.Time
}

// Strategy computes the service charge for an account at query time.
type Strategy interface {
	Charge(acct Account) decimal.Decimal
}

// Config carries the fee schedule shared by all strategies.
type Config struct {
	BaseCharge           decimal.Decimal
	OverdraftPenalty     decimal.Decimal
	OverdraftRate        decimal.Decimal
	SavingsPremium       decimal.Decimal
	ManagementFeePercent decimal.Decimal
	SeniorDiscount       decimal.Decimal
	SeniorTenure         time.Duration
}

// DefaultConfig returns the standard fee schedule.
func DefaultConfig() Config {
	return Config{
		BaseCharge:           decimal.RequireFromString("0.50"),
		OverdraftPenalty:     decimal.RequireFromString("0.50"),
		OverdraftRate:        decimal.Zero,
		SavingsPremium:       decimal.RequireFromString("0.50"),
		ManagementFeePercent: decimal.RequireFromString("0.001"),
		SeniorDiscount:       decimal.RequireFromString("0.5"),
		SeniorTenure:         SeniorTenure,
	}
}

// cents rounds to two places and floors at zero.
func cents(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return d.Round(2)
}
