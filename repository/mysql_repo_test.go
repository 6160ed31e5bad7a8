package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-accounts/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var accountRowColumns = []string{
	"account_number", "client_number", "account_type", "balance", "date_created",
	"overdraft_limit", "overdraft_rate", "minimum_balance", "management_fee", "interest_rate",
}

func TestMySQLGetAllAccounts(t *testing.T) {
	db, mock := newMock(t)
	opened := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow(10001, 1, "ChequingAccount", "640.00", opened, "-100.00", "0.05", "50.00", nil, "0").
		AddRow(10002, 1, "InvestmentAccount", "1000.00", opened, nil, "0", "0", "0.002", "0.025")
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts ORDER BY account_number")).WillReturnRows(rows)

	accounts, err := NewMySQLAccountRepository(db).GetAllAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	chq := accounts[0]
	assert.Equal(t, 10001, chq.AccountNumber)
	assert.Equal(t, "ChequingAccount", chq.AccountType)
	assert.True(t, chq.Balance.Equal(decimal.RequireFromString("640")))
	assert.True(t, chq.OverdraftLimit.Valid)
	assert.True(t, chq.OverdraftLimit.Decimal.Equal(decimal.RequireFromString("-100")))
	assert.False(t, chq.ManagementFee.Valid)
	assert.Equal(t, opened, chq.DateCreated)

	inv := accounts[1]
	assert.False(t, inv.OverdraftLimit.Valid)
	assert.True(t, inv.ManagementFee.Valid)
	assert.True(t, inv.InterestRate.Equal(decimal.RequireFromString("0.025")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetAccountByNumberNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE account_number = ?")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	_, err := NewMySQLAccountRepository(db).GetAccountByNumber(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLUpdateBalance(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance = ? WHERE account_number = ?")).
		WithArgs(sqlmock.AnyArg(), 10001).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateBalance(context.Background(), 10001, decimal.RequireFromString("12.34")))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance = ?")).
		WithArgs(sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateBalance(context.Background(), 99, decimal.Zero)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLClients(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLClientRepository(db)
	columns := []string{"client_number", "first_name", "last_name", "email_address"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients ORDER BY client_number")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Ada", "Lovelace", "ada@example.com").
			AddRow(2, "Grace", "Hopper", "grace@example.com"))
	clients, err := repo.GetAllClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, models.ClientRecord{ClientNumber: 2, FirstName: "Grace", LastName: "Hopper", EmailAddress: "grace@example.com"}, clients[1])

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE client_number = ?")).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetClientByNumber(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTransactions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLTransactionRepository(db)
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs("tx-1", 10001, models.TransactionDeposit, sqlmock.AnyArg(), sqlmock.AnyArg(), ts).
		WillReturnResult(sqlmock.NewResult(1, 1))
	err := repo.CreateTransaction(context.Background(), models.Transaction{
		TransactionID:   "tx-1",
		AccountNumber:   10001,
		TransactionType: models.TransactionDeposit,
		Amount:          decimal.RequireFromString("25.00"),
		BalanceAfter:    decimal.RequireFromString("665.00"),
		TransactionTs:   ts,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE account_number = ? ORDER BY transaction_ts, seq")).
		WithArgs(10001).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "account_number", "transaction_type", "amount", "balance_after", "transaction_ts"}).
			AddRow("tx-1", 10001, models.TransactionDeposit, "25.00", "665.00", ts))
	txs, err := repo.GetTransactionsForAccount(context.Background(), 10001)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].BalanceAfter.Equal(decimal.RequireFromString("665")))
	assert.Equal(t, ts, txs[0].TransactionTs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLInsertFailureIsWrapped(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(sql.ErrConnDone)

	err := NewMySQLTransactionRepository(db).CreateTransaction(context.Background(), models.Transaction{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "CreateTransaction")
}
