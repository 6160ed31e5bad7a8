package service

import (
	"github.com/pkg/errors"

	"bank-accounts/internal/account"
	"bank-accounts/internal/charge"
	"bank-accounts/internal/notify"
	"bank-accounts/models"
)

// ErrUnknownAccountType is returned for records whose account_type is not
// one of the account kinds.
var ErrUnknownAccountType = errors.New("unknown account type")

// Builder turns persisted account records into account variants.
type Builder struct {
	opts    account.Options
	hubOpts []notify.Option
}

// NewBuilder creates a builder. Every account gets its own hub built with
// hubOpts; opts.Hub is ignored. A nil opts.Charges means
// charge.DefaultConfig.
func NewBuilder(opts account.Options, hubOpts ...notify.Option) *Builder {
	opts.Hub = nil
	if opts.Charges == nil {
		charges := charge.DefaultConfig()
		opts.Charges = &charges
	}
	return &Builder{opts: opts, hubOpts: hubOpts}
}

// Build creates the variant named by rec.AccountType. A positive
// overdraft_rate and a present management_fee override the fee schedule for
// that account only.
func (b *Builder) Build(rec models.AccountRecord) (account.Account, error) {
	opts := b.opts
	opts.Hub = notify.NewHub(b.hubOpts...)
	charges := *b.opts.Charges
	opts.Charges = &charges

	switch account.Kind(rec.AccountType) {
	case account.KindChequing:
		if rec.OverdraftRate.IsPositive() {
			charges.OverdraftRate = rec.OverdraftRate
		}
		return account.NewChequing(rec.AccountNumber, rec.ClientNumber, rec.Balance, account.ChequingTerms{
			MinimumBalance: rec.MinimumBalance,
			OverdraftLimit: rec.OverdraftLimit,
		}, opts), nil
	case account.KindSavings:
		return account.NewSavings(rec.AccountNumber, rec.ClientNumber, rec.Balance, account.SavingsTerms{
			CreationDate:   rec.DateCreated,
			MinimumBalance: rec.MinimumBalance,
		}, opts), nil
	case account.KindInvestment:
		if rec.ManagementFee.Valid {
			charges.ManagementFeePercent = rec.ManagementFee.Decimal
		}
		return account.NewInvestment(rec.AccountNumber, rec.ClientNumber, rec.Balance, account.InvestmentTerms{
			InterestRate: rec.InterestRate,
			OpenedDate:   rec.DateCreated,
		}, opts), nil
	default:
		return nil, errors.Wrapf(ErrUnknownAccountType, "Build: account %d has type %q", rec.AccountNumber, rec.AccountType)
	}
}
