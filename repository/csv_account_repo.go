package repository

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-accounts/internal/account"
	"bank-accounts/internal/util"
	"bank-accounts/models"
)

// File names used by the CSV repositories inside the data directory.
const (
	AccountsFile     = "accounts.csv"
	ClientsFile      = "clients.csv"
	TransactionsFile = "transactions.csv"
)

// DateLayout is the layout of date columns in the CSV files.
const DateLayout = "2006-01-02"

// AccountColumns is the header of accounts.csv.
var AccountColumns = []string{
	"account_number", "client_number", "balance", "date_created", "account_type",
	"overdraft_limit", "overdraft_rate", "minimum_balance", "management_fee", "interest_rate",
}

// csvAccountRepository implements AccountRepository over accounts.csv.
type csvAccountRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCSVAccountRepository creates an account repository reading dir/accounts.csv.
// Malformed rows are logged and skipped.
func NewCSVAccountRepository(dir string, logger *zap.Logger) AccountRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &csvAccountRepository{path: filepath.Join(dir, AccountsFile), logger: logger}
}

// GetAllAccounts reads every well-formed row of accounts.csv in file order.
func (r *csvAccountRepository) GetAllAccounts(ctx context.Context) ([]models.AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := util.ReadTable(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "GetAllAccounts")
	}
	var accounts []models.AccountRecord
	for _, row := range table.Rows {
		acc, err := r.parseAccountRow(row)
		if err != nil {
			r.logger.Warn("skipping account row",
				zap.String("file", r.path), zap.Int("line", row.Line), zap.Error(err))
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// GetAccountByNumber returns the first well-formed row for accountNumber.
func (r *csvAccountRepository) GetAccountByNumber(ctx context.Context, accountNumber int) (models.AccountRecord, error) {
	accounts, err := r.GetAllAccounts(ctx)
	if err != nil {
		return models.AccountRecord{}, errors.Wrap(err, "GetAccountByNumber")
	}
	for _, acc := range accounts {
		if acc.AccountNumber == accountNumber {
			return acc, nil
		}
	}
	return models.AccountRecord{}, errors.Wrapf(ErrNotFound, "GetAccountByNumber: account %d", accountNumber)
}

// UpdateBalance rewrites the balance column of one account. Other rows,
// including malformed ones, are written back untouched.
func (r *csvAccountRepository) UpdateBalance(ctx context.Context, accountNumber int, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := util.ReadTable(r.path)
	if err != nil {
		return errors.Wrap(err, "UpdateBalance")
	}
	found := false
	for _, row := range table.Rows {
		n, err := strconv.Atoi(row.Get("account_number"))
		if err != nil || n != accountNumber {
			continue
		}
		row.Fields["balance"] = balance.StringFixed(2)
		found = true
		break
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "UpdateBalance: account %d", accountNumber)
	}
	if err := util.WriteTable(r.path, table); err != nil {
		return errors.Wrap(err, "UpdateBalance")
	}
	return nil
}

// parseAccountRow validates one row. A non-numeric balance opens the account
// at zero instead of rejecting the row.
func (r *csvAccountRepository) parseAccountRow(row util.Row) (models.AccountRecord, error) {
	var acc models.AccountRecord
	var err error
	if acc.AccountNumber, err = strconv.Atoi(row.Get("account_number")); err != nil {
		return acc, errors.Wrap(err, "invalid account_number")
	}
	if acc.ClientNumber, err = strconv.Atoi(row.Get("client_number")); err != nil {
		return acc, errors.Wrap(err, "invalid client_number")
	}
	acc.Balance = account.ParseBalance(row.Get("balance"))
	if _, err := decimal.NewFromString(row.Get("balance")); err != nil {
		r.logger.Warn("invalid balance, opening account at zero",
			zap.String("file", r.path), zap.Int("line", row.Line), zap.Int("account_number", acc.AccountNumber))
	}
	if acc.DateCreated, err = time.Parse(DateLayout, row.Get("date_created")); err != nil {
		return acc, errors.Wrap(err, "invalid date_created")
	}
	acc.AccountType = row.Get("account_type")
	if acc.OverdraftLimit, err = optionalDecimal(row.Get("overdraft_limit")); err != nil {
		return acc, errors.Wrap(err, "invalid overdraft_limit")
	}
	if acc.OverdraftRate, err = decimalOrZero(row.Get("overdraft_rate")); err != nil {
		return acc, errors.Wrap(err, "invalid overdraft_rate")
	}
	if acc.MinimumBalance, err = decimalOrZero(row.Get("minimum_balance")); err != nil {
		return acc, errors.Wrap(err, "invalid minimum_balance")
	}
	if acc.ManagementFee, err = optionalDecimal(row.Get("management_fee")); err != nil {
		return acc, errors.Wrap(err, "invalid management_fee")
	}
	if acc.InterestRate, err = decimalOrZero(row.Get("interest_rate")); err != nil {
		return acc, errors.Wrap(err, "invalid interest_rate")
	}
	return acc, nil
}

func optionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
