package repository

import (
	"context"
	"io/fs"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-accounts/internal/util"
	"bank-accounts/models"
)

// TransactionColumns is the header of transactions.csv.
var TransactionColumns = []string{
	"transaction_id", "account_number", "transaction_type", "amount", "balance_after", "transaction_ts",
}

// csvTransactionRepository implements TransactionRepository as an
// append-only transactions.csv journal.
type csvTransactionRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCSVTransactionRepository creates a journal at dir/transactions.csv.
// The file is created on first write.
func NewCSVTransactionRepository(dir string, logger *zap.Logger) TransactionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &csvTransactionRepository{path: filepath.Join(dir, TransactionsFile), logger: logger}
}

// CreateTransaction appends a journal entry.
func (r *csvTransactionRepository) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := []string{
		tx.TransactionID,
		strconv.Itoa(tx.AccountNumber),
		tx.TransactionType,
		tx.Amount.StringFixed(2),
		tx.BalanceAfter.StringFixed(2),
		tx.TransactionTs.Format(time.RFC3339),
	}
	if err := util.AppendRecord(r.path, TransactionColumns, record); err != nil {
		return errors.Wrap(err, "CreateTransaction")
	}
	return nil
}

// GetTransactionsForAccount returns an account's entries in journal order.
// A journal that does not exist yet holds no entries.
func (r *csvTransactionRepository) GetTransactionsForAccount(ctx context.Context, accountNumber int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := util.ReadTable(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "GetTransactionsForAccount")
	}
	var transactions []models.Transaction
	for _, row := range table.Rows {
		tx, err := parseTransactionRow(row)
		if err != nil {
			r.logger.Warn("skipping transaction row",
				zap.String("file", r.path), zap.Int("line", row.Line), zap.Error(err))
			continue
		}
		if tx.AccountNumber == accountNumber {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func parseTransactionRow(row util.Row) (models.Transaction, error) {
	tx := models.Transaction{
		TransactionID:   row.Get("transaction_id"),
		TransactionType: row.Get("transaction_type"),
	}
	var err error
	if tx.AccountNumber, err = strconv.Atoi(row.Get("account_number")); err != nil {
		return tx, errors.Wrap(err, "invalid account_number")
	}
	if tx.Amount, err = decimal.NewFromString(row.Get("amount")); err != nil {
		return tx, errors.Wrap(err, "invalid amount")
	}
	if tx.BalanceAfter, err = decimal.NewFromString(row.Get("balance_after")); err != nil {
		return tx, errors.Wrap(err, "invalid balance_after")
	}
	if tx.TransactionTs, err = time.Parse(time.RFC3339, row.Get("transaction_ts")); err != nil {
		return tx, errors.Wrap(err, "invalid transaction_ts")
	}
	return tx, nil
}
