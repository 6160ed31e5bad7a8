package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"bank-accounts/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// AccountRepository defines account persistence.
type AccountRepository interface {
	GetAllAccounts(ctx context.Context) ([]models.AccountRecord, error)
	GetAccountByNumber(ctx context.Context, accountNumber int) (models.AccountRecord, error)
	UpdateBalance(ctx context.Context, accountNumber int, balance decimal.Decimal) error
}

// ClientRepository defines client persistence.
type ClientRepository interface {
	GetAllClients(ctx context.Context) ([]models.ClientRecord, error)
	GetClientByNumber(ctx context.Context, clientNumber int) (models.ClientRecord, error)
}

// TransactionRepository defines the transaction journal.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	GetTransactionsForAccount(ctx context.Context, accountNumber int) ([]models.Transaction, error)
}
