package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"bank-accounts/models"
)

const accountColumns = "account_number, client_number, account_type, balance, date_created, " +
	"overdraft_limit, overdraft_rate, minimum_balance, management_fee, interest_rate"

// mysqlAccountRepository implements AccountRepository for MySQL.
type mysqlAccountRepository struct {
	db DBTX
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db DBTX) AccountRepository {
	return &mysqlAccountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.AccountRecord, error) {
	var acc models.AccountRecord
	err := row.Scan(&acc.AccountNumber, &acc.ClientNumber, &acc.AccountType, &acc.Balance, &acc.DateCreated,
		&acc.OverdraftLimit, &acc.OverdraftRate, &acc.MinimumBalance, &acc.ManagementFee, &acc.InterestRate)
	return acc, err
}

// GetAllAccounts retrieves every account ordered by account number.
func (r *mysqlAccountRepository) GetAllAccounts(ctx context.Context) ([]models.AccountRecord, error) {
	query := "SELECT " + accountColumns + " FROM accounts ORDER BY account_number"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "GetAllAccounts")
	}
	defer rows.Close()

	var accounts []models.AccountRecord
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, errors.Wrap(err, "GetAllAccounts: scan error")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "GetAllAccounts: rows iteration error")
	}
	return accounts, nil
}

// GetAccountByNumber retrieves a single account.
func (r *mysqlAccountRepository) GetAccountByNumber(ctx context.Context, accountNumber int) (models.AccountRecord, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE account_number = ?"
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return acc, errors.Wrapf(ErrNotFound, "GetAccountByNumber: account %d", accountNumber)
		}
		return acc, errors.Wrap(err, "GetAccountByNumber")
	}
	return acc, nil
}

// UpdateBalance stores a new balance for an account.
func (r *mysqlAccountRepository) UpdateBalance(ctx context.Context, accountNumber int, balance decimal.Decimal) error {
	query := "UPDATE accounts SET balance = ? WHERE account_number = ?"
	result, err := r.db.ExecContext(ctx, query, balance, accountNumber)
	if err != nil {
		return errors.Wrap(err, "UpdateBalance")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "UpdateBalance: RowsAffected failed")
	}
	if rowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "UpdateBalance: account %d", accountNumber)
	}
	return nil
}
