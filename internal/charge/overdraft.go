package charge

import "github.com/shopspring/decimal"

// Overdraft charges chequing accounts.
//
// The base charge always applies. The overdraft penalty is added once when
// the balance is below the minimum balance and once more when it is also
// below the overdraft limit. When a per-unit rate is configured, a negative
// balance adds rate * |balance| on top.
type Overdraft struct {
	base           decimal.Decimal
	penalty        decimal.Decimal
	rate           decimal.Decimal
	minimumBalance decimal.Decimal
	overdraftLimit decimal.NullDecimal
}

var _ Strategy = (*Overdraft)(nil)

// NewOverdraft creates an overdraft strategy for the given floor and limit.
func NewOverdraft(cfg Config, minimumBalance decimal.Decimal, overdraftLimit decimal.NullDecimal) *Overdraft {
	return &Overdraft{
		base:           cfg.BaseCharge,
		penalty:        cfg.OverdraftPenalty,
		rate:           cfg.OverdraftRate,
		minimumBalance: minimumBalance,
		overdraftLimit: overdraftLimit,
	}
}

// Charge implements Strategy.
func (s *Overdraft) Charge(acct Account) decimal.Decimal {
	balance := acct.Balance()
	charge := s.base
	if balance.LessThan(s.minimumBalance) {
		charge = charge.Add(s.penalty)
	}
	if s.overdraftLimit.Valid && balance.LessThan(s.overdraftLimit.Decimal) {
		charge = charge.Add(s.penalty)
	}
	if balance.IsNegative() && s.rate.IsPositive() {
		charge = charge.Add(balance.Abs().Mul(s.rate))
	}
	return cents(charge)
}
