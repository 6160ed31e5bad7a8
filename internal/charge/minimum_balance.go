package charge

import "github.com/shopspring/decimal"

// MinimumBalance charges savings accounts: the base charge, plus a premium
// while the balance sits below the required minimum.
type MinimumBalance struct {
	base           decimal.Decimal
	premium        decimal.Decimal
	minimumBalance decimal.Decimal
}

var _ Strategy = (*MinimumBalance)(nil)

// NewMinimumBalance creates a minimum balance strategy.
func NewMinimumBalance(cfg Config, minimumBalance decimal.Decimal) *MinimumBalance {
	return &MinimumBalance{
		base:           cfg.BaseCharge,
		premium:        cfg.SavingsPremium,
		minimumBalance: minimumBalance,
	}
}

// Charge implements Strategy.
func (s *MinimumBalance) Charge(acct Account) decimal.Decimal {
	if acct.Balance().LessThan(s.minimumBalance) {
		return cents(s.base.Add(s.premium))
	}
	return cents(s.base)
}
