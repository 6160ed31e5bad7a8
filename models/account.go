package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord is the persisted form of an account, one row per account.
// Columns that do not apply to the account type are left zero.
type AccountRecord struct {
	AccountNumber  int
	ClientNumber   int
	AccountType    string
	Balance        decimal.Decimal
	DateCreated    time.Time
	OverdraftLimit decimal.NullDecimal
	OverdraftRate  decimal.Decimal
	MinimumBalance decimal.Decimal
	ManagementFee  decimal.NullDecimal
	InterestRate   decimal.Decimal
}
