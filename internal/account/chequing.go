package account

import (
	"github.com/shopspring/decimal"

	"bank-accounts/internal/charge"
)

// ChequingTerms are the chequing-specific construction parameters.
type ChequingTerms struct {
	// MinimumBalance is the debit floor; negative values allow overdraft.
	MinimumBalance decimal.Decimal
	// OverdraftLimit, when set, marks the deeper overdraft fee tier.
	OverdraftLimit decimal.NullDecimal
}

// Chequing is an overdraft-aware account that never bears interest.
type Chequing struct {
	base
	minimumBalance decimal.Decimal
	overdraftLimit decimal.NullDecimal
}

var _ Account = (*Chequing)(nil)

// NewChequing creates a chequing account bound to an overdraft strategy.
func NewChequing(accountNumber, clientNumber int, balance decimal.Decimal, terms ChequingTerms, opts Options) *Chequing {
	opts = opts.withDefaults()
	a := &Chequing{
		base:           newBase(accountNumber, clientNumber, balance, opts),
		minimumBalance: terms.MinimumBalance,
		overdraftLimit: terms.OverdraftLimit,
	}
	a.strategy = charge.NewOverdraft(*opts.Charges, terms.MinimumBalance, terms.OverdraftLimit)
	return a
}

func (a *Chequing) Kind() Kind                            { return KindChequing }
func (a *Chequing) MinimumBalance() decimal.Decimal       { return a.minimumBalance }
func (a *Chequing) OverdraftLimit() decimal.NullDecimal   { return a.overdraftLimit }
func (a *Chequing) ServiceCharges() decimal.Decimal       { return a.serviceCharges(a) }
func (a *Chequing) ApplyInterest() decimal.Decimal        { return decimal.Zero }
func (a *Chequing) Withdraw(amount decimal.Decimal) error { return a.Debit(amount) }

// Debit fails with ErrBelowMinimumBalance when the balance would drop under
// the minimum balance.
func (a *Chequing) Debit(amount decimal.Decimal) error {
	return a.debitWithFloor(amount, a.minimumBalance)
}

func (a *Chequing) String() string {
	extra := []string{"Minimum Balance: " + Money(a.minimumBalance)}
	if a.overdraftLimit.Valid {
		extra = append(extra, "Overdraft Limit: "+Money(a.overdraftLimit.Decimal))
	}
	return a.render(extra...)
}
