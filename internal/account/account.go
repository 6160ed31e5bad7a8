// Package account models bank accounts: a shared base with identity,
// balance and notification plumbing, and the chequing, savings and
// investment variants that add their own withdrawal floors, interest rules
// and service charge strategies.
//
// Account values are not safe for concurrent use. Callers that share an
// account between goroutines must synchronise access themselves.
package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"bank-accounts/internal/charge"
	"bank-accounts/internal/notify"
)

// Kind names an account variant.
type Kind string

const (
	KindChequing   Kind = "ChequingAccount"
	KindSavings    Kind = "SavingsAccount"
	KindInvestment Kind = "InvestmentAccount"
)

// Account is the capability shared by every account variant.
type Account interface {
	AccountNumber() int
	ClientNumber() int
	Balance() decimal.Decimal
	Kind() Kind

	// Deposit credits amount to the balance.
	Deposit(amount decimal.Decimal) error
	// Withdraw debits amount using the variant's withdrawal rule.
	Withdraw(amount decimal.Decimal) error
	// Debit debits amount, enforcing the variant's floor.
	Debit(amount decimal.Decimal) error
	// ApplyInterest credits interest and returns the amount credited.
	ApplyInterest() decimal.Decimal
	// ServiceCharges returns the charge computed by the bound strategy.
	ServiceCharges() decimal.Decimal
	// SetStrategy replaces the bound service charge strategy.
	SetStrategy(s charge.Strategy)

	Attach(l notify.Listener)
	Detach(l notify.Listener)

	String() string
}

// Options are the collaborators and configuration shared by all variants.
// Nil fields fall back to DefaultPolicy, charge.DefaultConfig, a fresh hub
// and the wall clock. A non-nil Policy or Charges is used as given, zero
// values included.
type Options struct {
	Policy  *Policy
	Charges *charge.Config
	Hub     *notify.Hub
	Now     func() time.Time
}

// DefaultOptions returns the standard policy and fee schedule.
func DefaultOptions() Options {
	policy := DefaultPolicy()
	charges := charge.DefaultConfig()
	return Options{Policy: &policy, Charges: &charges}
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		policy := DefaultPolicy()
		o.Policy = &policy
	}
	if o.Charges == nil {
		charges := charge.DefaultConfig()
		o.Charges = &charges
	}
	if o.Hub == nil {
		o.Hub = notify.NewHub()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// base holds the state and primitives every variant embeds.
type base struct {
	accountNumber int
	clientNumber  int
	balance       decimal.Decimal
	policy        Policy
	hub           *notify.Hub
	strategy      charge.Strategy
}

func newBase(accountNumber, clientNumber int, balance decimal.Decimal, opts Options) base {
	return base{
		accountNumber: accountNumber,
		clientNumber:  clientNumber,
		balance:       balance,
		policy:        *opts.Policy,
		hub:           opts.Hub,
	}
}

func (b *base) AccountNumber() int       { return b.accountNumber }
func (b *base) ClientNumber() int        { return b.clientNumber }
func (b *base) Balance() decimal.Decimal { return b.balance }

func (b *base) Attach(l notify.Listener) { b.hub.Attach(l) }
func (b *base) Detach(l notify.Listener) { b.hub.Detach(l) }

func (b *base) SetStrategy(s charge.Strategy) { b.strategy = s }

// serviceCharges delegates to the bound strategy with self as the account
// view, so strategies see the variant's own accessors. An account without a
// strategy is not charged.
func (b *base) serviceCharges(self charge.Account) decimal.Decimal {
	if b.strategy == nil {
		return decimal.Zero
	}
	return b.strategy.Charge(self)
}

// Deposit credits amount and runs the post-transaction checks.
func (b *base) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "deposit amount %s must be positive", Money(amount))
	}
	b.apply(amount)
	b.postTransactionChecks(amount)
	return nil
}

// Withdraw debits amount with a zero floor.
func (b *base) Withdraw(amount decimal.Decimal) error {
	return b.debitWithZeroFloor(amount)
}

func (b *base) debitWithZeroFloor(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "withdraw amount %s must be positive", Money(amount))
	}
	if amount.GreaterThan(b.balance) {
		return errors.Wrapf(ErrInsufficientFunds, "withdraw amount %s must not exceed the account balance %s",
			Money(amount), Money(b.balance))
	}
	b.apply(amount.Neg())
	b.postTransactionChecks(amount)
	return nil
}

func (b *base) debitWithFloor(amount, floor decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "withdraw amount %s must be positive", Money(amount))
	}
	if b.balance.Sub(amount).LessThan(floor) {
		return errors.Wrapf(ErrBelowMinimumBalance, "withdraw amount %s would take the balance %s below %s",
			Money(amount), Money(b.balance), Money(floor))
	}
	b.apply(amount.Neg())
	b.postTransactionChecks(amount)
	return nil
}

func (b *base) apply(delta decimal.Decimal) {
	b.balance = b.balance.Add(delta)
}

// postTransactionChecks sends the low balance and large transaction
// messages. Both checks run independently.
func (b *base) postTransactionChecks(amount decimal.Decimal) {
	b.checkLowBalance()
	if amount.Abs().GreaterThan(b.policy.LargeTransactionLevel) {
		b.hub.Notify(fmt.Sprintf("Large transaction %s: on account %d.", Money(amount.Abs()), b.accountNumber))
	}
}

func (b *base) checkLowBalance() {
	if b.balance.LessThan(b.policy.LowBalanceLevel) {
		b.hub.Notify(fmt.Sprintf("Low balance warning %s: on account %d.", Money(b.balance), b.accountNumber))
	}
}

func (b *base) String() string {
	return b.render()
}

func (b *base) render(extra ...string) string {
	lines := append([]string{
		fmt.Sprintf("Account Number: %d", b.accountNumber),
		fmt.Sprintf("Client Number: %d", b.clientNumber),
		"Balance: " + Money(b.balance),
	}, extra...)
	return strings.Join(lines, "\n")
}
