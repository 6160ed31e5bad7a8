package account

import (
	"time"

	"github.com/shopspring/decimal"

	"bank-accounts/internal/charge"
)

// SavingsTerms are the savings-specific construction parameters.
type SavingsTerms struct {
	CreationDate   time.Time
	MinimumBalance decimal.Decimal
}

// Savings is a zero-floor account charged a premium while its balance is
// under the minimum balance. Interest is credited outside the account, so
// ApplyInterest never changes the balance.
type Savings struct {
	base
	creationDate   time.Time
	minimumBalance decimal.Decimal
}

var _ Account = (*Savings)(nil)

// NewSavings creates a savings account bound to a minimum balance strategy.
func NewSavings(accountNumber, clientNumber int, balance decimal.Decimal, terms SavingsTerms, opts Options) *Savings {
	opts = opts.withDefaults()
	a := &Savings{
		base:           newBase(accountNumber, clientNumber, balance, opts),
		creationDate:   terms.CreationDate,
		minimumBalance: terms.MinimumBalance,
	}
	a.strategy = charge.NewMinimumBalance(*opts.Charges, terms.MinimumBalance)
	return a
}

func (a *Savings) Kind() Kind                      { return KindSavings }
func (a *Savings) CreationDate() time.Time         { return a.creationDate }
func (a *Savings) MinimumBalance() decimal.Decimal { return a.minimumBalance }
func (a *Savings) ServiceCharges() decimal.Decimal { return a.serviceCharges(a) }
func (a *Savings) ApplyInterest() decimal.Decimal  { return decimal.Zero }

// Debit fails with ErrInsufficientFunds when amount exceeds the balance.
func (a *Savings) Debit(amount decimal.Decimal) error {
	return a.debitWithZeroFloor(amount)
}

func (a *Savings) String() string {
	return a.render(
		"Creation Date: "+formatDate(a.creationDate),
		"Minimum Balance: "+Money(a.minimumBalance),
	)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format(time.DateOnly)
}
