package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types recorded in the journal.
const (
	TransactionDeposit       = "DEPOSIT"
	TransactionWithdrawal    = "WITHDRAWAL"
	TransactionServiceCharge = "SERVICE_CHARGE"
	TransactionInterest      = "INTEREST"
)

// Transaction is one journal entry for a successful balance change.
type Transaction struct {
	TransactionID   string
	AccountNumber   int
	TransactionType string
	Amount          decimal.Decimal
	BalanceAfter    decimal.Decimal
	TransactionTs   time.Time
}
