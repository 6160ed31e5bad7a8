package repository

import (
	"context"

	"github.com/pkg/errors"

	"bank-accounts/models"
)

// mysqlTransactionRepository implements TransactionRepository for MySQL.
type mysqlTransactionRepository struct {
	db DBTX
}

// NewMySQLTransactionRepository creates a new MySQL transaction repository.
func NewMySQLTransactionRepository(db DBTX) TransactionRepository {
	return &mysqlTransactionRepository{db: db}
}

// CreateTransaction inserts a journal entry.
func (r *mysqlTransactionRepository) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	query := "INSERT INTO transactions (transaction_id, account_number, transaction_type, amount, balance_after, transaction_ts) " +
		"VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, tx.TransactionID, tx.AccountNumber, tx.TransactionType, tx.Amount, tx.BalanceAfter, tx.TransactionTs)
	if err != nil {
		return errors.Wrap(err, "CreateTransaction")
	}
	return nil
}

// GetTransactionsForAccount retrieves an account's journal, oldest first.
// Entries sharing a timestamp come back in insertion order via seq.
func (r *mysqlTransactionRepository) GetTransactionsForAccount(ctx context.Context, accountNumber int) ([]models.Transaction, error) {
	query := "SELECT transaction_id, account_number, transaction_type, amount, balance_after, transaction_ts " +
		"FROM transactions WHERE account_number = ? ORDER BY transaction_ts, seq"
	rows, err := r.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, errors.Wrap(err, "GetTransactionsForAccount")
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.TransactionID, &tx.AccountNumber, &tx.TransactionType, &tx.Amount, &tx.BalanceAfter, &tx.TransactionTs); err != nil {
			return nil, errors.Wrap(err, "GetTransactionsForAccount: scan error")
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "GetTransactionsForAccount: rows iteration error")
	}
	return transactions, nil
}
