package charge

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManagementFee charges investment accounts the base charge plus a
// proportional fee on a positive balance. Accounts held longer than the
// senior tenure get the proportional part reduced by the senior discount.
type ManagementFee struct {
	base     decimal.Decimal
	percent  decimal.Decimal
	discount decimal.Decimal
	tenure   time.Duration
	now      func() time.Time
}

var _ Strategy = (*ManagementFee)(nil)

// NewManagementFee creates a management fee strategy. now may be nil, in
// which case the wall clock is used.
func NewManagementFee(cfg Config, now func() time.Time) *ManagementFee {
	if now == nil {
		now = time.Now
	}
	discount := cfg.SeniorDiscount
	switch {
	case discount.IsNegative():
		discount = decimal.Zero
	case discount.GreaterThan(decimal.NewFromInt(1)):
		discount = decimal.NewFromInt(1)
	}
	tenure := cfg.SeniorTenure
	if tenure <= 0 {
		tenure = SeniorTenure
	}
	return &ManagementFee{
		base:     cfg.BaseCharge,
		percent:  cfg.ManagementFeePercent,
		discount: discount,
		tenure:   tenure,
		now:      now,
	}
}

// Charge implements Strategy. Accounts that do not report an opened date
// are charged without the senior discount.
func (s *ManagementFee) Charge(acct Account) decimal.Decimal {
	charge := s.base
	balance := acct.Balance()
	if balance.IsPositive() {
		fee := balance.Mul(s.percent)
		if s.senior(acct) {
			fee = fee.Mul(decimal.NewFromInt(1).Sub(s.discount))
		}
		charge = charge.Add(fee)
	}
	if charge.LessThan(s.base) {
		charge = s.base
	}
	return cents(charge)
}

func (s *ManagementFee) senior(acct Account) bool {
	t, ok := acct.(Tenured)
	if !ok {
		return false
	}
	opened := t.OpenedDate()
	if opened.IsZero() {
		return false
	}
	return s.now().Sub(opened) > s.tenure
}
