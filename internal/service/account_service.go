package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bank-accounts/internal/account"
	"bank-accounts/internal/client"
	"bank-accounts/internal/notify"
	"bank-accounts/models"
	"bank-accounts/repository"
)

// Service layer errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrNotLoaded       = errors.New("accounts have not been loaded")
)

// ChargeResult is the outcome of charging one account.
type ChargeResult struct {
	AccountNumber int
	Charge        decimal.Decimal
	Err           error
}

// AccountService loads accounts and clients from the repositories and runs
// balance-changing operations against them. Every successful change is
// written back to the account store and recorded in the journal.
type AccountService interface {
	Load(ctx context.Context) error
	Accounts() []account.Account
	Account(accountNumber int) (account.Account, error)
	AccountsForClient(clientNumber int) ([]account.Account, error)
	Clients() []*client.Client
	Client(clientNumber int) (*client.Client, error)

	Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) error
	ServiceCharges(accountNumber int) (decimal.Decimal, error)
	ApplyServiceCharges(ctx context.Context) ([]ChargeResult, error)
	ApplyInterest(ctx context.Context, accountNumber int) (decimal.Decimal, error)
	History(ctx context.Context, accountNumber int) ([]models.Transaction, error)
}

// Options configure an AccountService.
type Options struct {
	// Builder creates account variants; nil uses account.DefaultOptions.
	Builder *Builder
	// Mailbox, when set, receives a simulated e-mail for every notification
	// sent to an account's owner.
	Mailbox io.Writer
	Logger  *zap.Logger
	Now     func() time.Time
}

// accountServiceImpl implements AccountService.
type accountServiceImpl struct {
	accountRepo     repository.AccountRepository
	clientRepo      repository.ClientRepository
	transactionRepo repository.TransactionRepository
	builder         *Builder
	mailbox         io.Writer
	logger          *zap.Logger
	now             func() time.Time

	mu       sync.Mutex
	loaded   bool
	clients  map[int]*client.Client
	accounts map[int]account.Account
}

// NewAccountService creates a new account service. Call Load before use.
func NewAccountService(accountRepo repository.AccountRepository, clientRepo repository.ClientRepository,
	transactionRepo repository.TransactionRepository, opts Options) AccountService {
	if opts.Builder == nil {
		opts.Builder = NewBuilder(account.DefaultOptions())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &accountServiceImpl{
		accountRepo:     accountRepo,
		clientRepo:      clientRepo,
		transactionRepo: transactionRepo,
		builder:         opts.Builder,
		mailbox:         opts.Mailbox,
		logger:          opts.Logger,
		now:             opts.Now,
	}
}

// Load reads every client and account. Invalid clients, accounts whose
// client is unknown and accounts of an unknown type are logged and skipped.
func (s *accountServiceImpl) Load(ctx context.Context) error {
	clientRecords, err := s.clientRepo.GetAllClients(ctx)
	if err != nil {
		return errors.Wrap(err, "Load: failed to read clients")
	}
	accountRecords, err := s.accountRepo.GetAllAccounts(ctx)
	if err != nil {
		return errors.Wrap(err, "Load: failed to read accounts")
	}

	clients := make(map[int]*client.Client, len(clientRecords))
	for _, rec := range clientRecords {
		c, err := client.New(rec.ClientNumber, rec.FirstName, rec.LastName, rec.EmailAddress)
		if err != nil {
			s.logger.Warn("skipping client", zap.Int("client_number", rec.ClientNumber), zap.Error(err))
			continue
		}
		clients[c.Number()] = c
	}

	accounts := make(map[int]account.Account, len(accountRecords))
	for _, rec := range accountRecords {
		owner, ok := clients[rec.ClientNumber]
		if !ok {
			s.logger.Warn("skipping account with unknown client",
				zap.Int("account_number", rec.AccountNumber), zap.Int("client_number", rec.ClientNumber))
			continue
		}
		acc, err := s.builder.Build(rec)
		if err != nil {
			s.logger.Warn("skipping account", zap.Int("account_number", rec.AccountNumber), zap.Error(err))
			continue
		}
		if s.mailbox != nil {
			acc.Attach(notify.NewEmailListener(owner.FullName(), owner.Email(), s.mailbox))
		}
		accounts[acc.AccountNumber()] = acc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = clients
	s.accounts = accounts
	s.loaded = true
	s.logger.Info("accounts loaded", zap.Int("clients", len(clients)), zap.Int("accounts", len(accounts)))
	return nil
}

// Accounts returns every loaded account ordered by account number.
func (s *accountServiceImpl) Accounts() []account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedAccounts(s.accounts, func(account.Account) bool { return true })
}

// Account returns one loaded account.
func (s *accountServiceImpl) Account(accountNumber int) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(accountNumber)
}

// AccountsForClient returns a client's accounts ordered by account number.
func (s *accountServiceImpl) AccountsForClient(clientNumber int) ([]account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	if _, ok := s.clients[clientNumber]; !ok {
		return nil, errors.Wrapf(ErrClientNotFound, "AccountsForClient: client %d", clientNumber)
	}
	return sortedAccounts(s.accounts, func(a account.Account) bool { return a.ClientNumber() == clientNumber }), nil
}

// Clients returns every loaded client ordered by client number.
func (s *accountServiceImpl) Clients() []*client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := make([]*client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Number() < clients[j].Number() })
	return clients
}

// Client returns one loaded client.
func (s *accountServiceImpl) Client(clientNumber int) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	c, ok := s.clients[clientNumber]
	if !ok {
		return nil, errors.Wrapf(ErrClientNotFound, "Client: client %d", clientNumber)
	}
	return c, nil
}

// Deposit credits an account and records a DEPOSIT entry.
func (s *accountServiceImpl) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.lookup(accountNumber)
	if err != nil {
		return errors.Wrap(err, "Deposit")
	}
	if err := acc.Deposit(amount); err != nil {
		return errors.Wrapf(err, "Deposit: account %d", accountNumber)
	}
	return s.persist(ctx, acc, models.TransactionDeposit, amount)
}

// Withdraw debits an account using its withdrawal rule and records a
// WITHDRAWAL entry.
func (s *accountServiceImpl) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.lookup(accountNumber)
	if err != nil {
		return errors.Wrap(err, "Withdraw")
	}
	if err := acc.Withdraw(amount); err != nil {
		return errors.Wrapf(err, "Withdraw: account %d", accountNumber)
	}
	return s.persist(ctx, acc, models.TransactionWithdrawal, amount)
}

// ServiceCharges returns the charge an account would pay now.
func (s *accountServiceImpl) ServiceCharges(accountNumber int) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.lookup(accountNumber)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "ServiceCharges")
	}
	return acc.ServiceCharges(), nil
}

// ApplyServiceCharges debits every account's service charge. A failure on
// one account does not stop the others; the returned error combines every
// failure and each result carries its own.
func (s *accountServiceImpl) ApplyServiceCharges(ctx context.Context) ([]ChargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	var errs error
	var results []ChargeResult
	for _, acc := range sortedAccounts(s.accounts, func(account.Account) bool { return true }) {
		result := ChargeResult{AccountNumber: acc.AccountNumber(), Charge: acc.ServiceCharges()}
		if result.Charge.IsPositive() {
			if err := acc.Debit(result.Charge); err != nil {
				result.Err = errors.Wrapf(err, "ApplyServiceCharges: account %d", acc.AccountNumber())
			} else {
				result.Err = s.persist(ctx, acc, models.TransactionServiceCharge, result.Charge)
			}
		}
		if result.Err != nil {
			s.logger.Warn("service charge failed", zap.Int("account_number", acc.AccountNumber()), zap.Error(result.Err))
			errs = multierr.Append(errs, result.Err)
		}
		results = append(results, result)
	}
	return results, errs
}

// ApplyInterest credits an account's interest and records an INTEREST entry
// when the interest is not zero.
func (s *accountServiceImpl) ApplyInterest(ctx context.Context, accountNumber int) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.lookup(accountNumber)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "ApplyInterest")
	}
	interest := acc.ApplyInterest()
	if interest.IsZero() {
		return interest, nil
	}
	return interest, s.persist(ctx, acc, models.TransactionInterest, interest)
}

// History returns an account's journal.
func (s *accountServiceImpl) History(ctx context.Context, accountNumber int) ([]models.Transaction, error) {
	txs, err := s.transactionRepo.GetTransactionsForAccount(ctx, accountNumber)
	if err != nil {
		return nil, errors.Wrap(err, "History")
	}
	return txs, nil
}

func (s *accountServiceImpl) lookup(accountNumber int) (account.Account, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	acc, ok := s.accounts[accountNumber]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %d", accountNumber)
	}
	return acc, nil
}

// persist writes the account's balance and journals the change. The
// in-memory balance has already moved; a persistence failure is returned
// and logged so the operator can reconcile.
func (s *accountServiceImpl) persist(ctx context.Context, acc account.Account, txType string, amount decimal.Decimal) error {
	if err := s.accountRepo.UpdateBalance(ctx, acc.AccountNumber(), acc.Balance()); err != nil {
		s.logger.Error("balance not persisted", zap.Int("account_number", acc.AccountNumber()), zap.Error(err))
		return errors.Wrapf(err, "persist: account %d", acc.AccountNumber())
	}
	tx := models.Transaction{
		TransactionID:   uuid.NewString(),
		AccountNumber:   acc.AccountNumber(),
		TransactionType: txType,
		Amount:          amount,
		BalanceAfter:    acc.Balance(),
		TransactionTs:   s.now(),
	}
	if err := s.transactionRepo.CreateTransaction(ctx, tx); err != nil {
		s.logger.Error("transaction not journaled", zap.String("transaction_id", tx.TransactionID), zap.Error(err))
		return errors.Wrapf(err, "persist: journal for account %d", acc.AccountNumber())
	}
	s.logger.Info("transaction recorded",
		zap.String("transaction_id", tx.TransactionID),
		zap.Int("account_number", tx.AccountNumber),
		zap.String("type", txType),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance_after", tx.BalanceAfter.StringFixed(2)))
	return nil
}

func sortedAccounts(accounts map[int]account.Account, keep func(account.Account) bool) []account.Account {
	var out []account.Account
	for _, a := range accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber() < out[j].AccountNumber() })
	return out
}
