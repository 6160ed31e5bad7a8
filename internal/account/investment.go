package account

import (
	"time"

	"github.com/shopspring/decimal"

	"bank-accounts/internal/charge"
)

// InvestmentTerms are the investment-specific construction parameters.
type InvestmentTerms struct {
	// InterestRate is a fraction, 0.05 for five percent.
	InterestRate decimal.Decimal
	// OpenedDate is only used by the management fee; it may be zero.
	OpenedDate time.Time
}

// Investment is an interest-bearing, zero-floor account charged a
// management fee that is discounted for long-held accounts.
type Investment struct {
	base
	interestRate decimal.Decimal
	openedDate   time.Time
}

var _ Account = (*Investment)(nil)
var _ charge.Tenured = (*Investment)(nil)

// NewInvestment creates an investment account bound to a management fee
// strategy.
func NewInvestment(accountNumber, clientNumber int, balance decimal.Decimal, terms InvestmentTerms, opts Options) *Investment {
	opts = opts.withDefaults()
	a := &Investment{
		base:         newBase(accountNumber, clientNumber, balance, opts),
		interestRate: terms.InterestRate,
		openedDate:   terms.OpenedDate,
	}
	a.strategy = charge.NewManagementFee(*opts.Charges, opts.Now)
	return a
}

func (a *Investment) Kind() Kind                      { return KindInvestment }
func (a *Investment) InterestRate() decimal.Decimal   { return a.interestRate }
func (a *Investment) OpenedDate() time.Time           { return a.openedDate }
func (a *Investment) ServiceCharges() decimal.Decimal { return a.serviceCharges(a) }

// Debit fails with ErrInsufficientFunds when amount exceeds the balance.
func (a *Investment) Debit(amount decimal.Decimal) error {
	return a.debitWithZeroFloor(amount)
}

// ApplyInterest credits balance * rate, rounded to cents, directly without
// the debit floor checks, and returns the credited interest.
func (a *Investment) ApplyInterest() decimal.Decimal {
	interest := a.balance.Mul(a.interestRate).Round(2)
	if interest.IsZero() {
		return interest
	}
	a.apply(interest)
	a.checkLowBalance()
	return interest
}

func (a *Investment) String() string {
	var extra []string
	if !a.openedDate.IsZero() {
		extra = append(extra, "Date Opened: "+formatDate(a.openedDate))
	}
	extra = append(extra, "Interest Rate: "+Percent(a.interestRate))
	return a.render(extra...)
}
