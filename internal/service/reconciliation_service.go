package service

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-accounts/internal/account"
	"bank-accounts/models"
	"bank-accounts/repository"
)

// Discrepancy kinds reported by reconciliation.
const (
	DiscrepancyBalance = "BALANCE_MISMATCH"
	DiscrepancyChain   = "BROKEN_CHAIN"
	DiscrepancyType    = "UNKNOWN_TYPE"
)

// Discrepancy describes one place where the journal and the account store
// disagree.
type Discrepancy struct {
	AccountNumber int
	Kind          string
	TransactionID string
	Expected      decimal.Decimal
	Actual        decimal.Decimal
}

// ReconciliationReport summarises a reconciliation run.
type ReconciliationReport struct {
	Matched       []int
	NoHistory     []int
	Discrepancies []Discrepancy
}

// ReconciliationService checks stored balances against the transaction
// journal.
type ReconciliationService interface {
	Reconcile(ctx context.Context) (ReconciliationReport, error)
}

// reconciliationServiceImpl implements ReconciliationService.
type reconciliationServiceImpl struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	logger          *zap.Logger
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository,
	logger *zap.Logger) ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reconciliationServiceImpl{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// signedAmount returns the balance delta a journal entry stands for.
func signedAmount(tx models.Transaction) (decimal.Decimal, bool) {
	switch tx.TransactionType {
	case models.TransactionDeposit, models.TransactionInterest:
		return tx.Amount, true
	case models.TransactionWithdrawal, models.TransactionServiceCharge:
		return tx.Amount.Neg(), true
	}
	return decimal.Zero, false
}

// Reconcile walks every account's journal. Consecutive entries must chain
// (previous balance_after plus the signed amount gives balance_after) and the
// last entry must match the stored balance. Accounts without entries are
// listed separately.
func (s *reconciliationServiceImpl) Reconcile(ctx context.Context) (ReconciliationReport, error) {
	var report ReconciliationReport

	accounts, err := s.accountRepo.GetAllAccounts(ctx)
	if err != nil {
		return report, errors.Wrap(err, "Reconcile: failed to fetch accounts")
	}
	for _, acc := range accounts {
		txs, err := s.transactionRepo.GetTransactionsForAccount(ctx, acc.AccountNumber)
		if err != nil {
			return report, errors.Wrapf(err, "Reconcile: failed to fetch journal for account %d", acc.AccountNumber)
		}
		if len(txs) == 0 {
			report.NoHistory = append(report.NoHistory, acc.AccountNumber)
			continue
		}

		found := checkChain(acc.AccountNumber, txs)
		last := txs[len(txs)-1]
		if !last.BalanceAfter.Equal(acc.Balance) {
			found = append(found, Discrepancy{
				AccountNumber: acc.AccountNumber,
				Kind:          DiscrepancyBalance,
				TransactionID: last.TransactionID,
				Expected:      last.BalanceAfter,
				Actual:        acc.Balance,
			})
		}
		if len(found) == 0 {
			report.Matched = append(report.Matched, acc.AccountNumber)
			continue
		}
		report.Discrepancies = append(report.Discrepancies, found...)
	}

	s.logger.Info("reconciliation finished",
		zap.Int("matched", len(report.Matched)),
		zap.Int("no_history", len(report.NoHistory)),
		zap.Int("discrepancies", len(report.Discrepancies)))
	return report, nil
}

func checkChain(accountNumber int, txs []models.Transaction) []Discrepancy {
	var found []Discrepancy
	for i, tx := range txs {
		delta, ok := signedAmount(tx)
		if !ok {
			found = append(found, Discrepancy{AccountNumber: accountNumber, Kind: DiscrepancyType, TransactionID: tx.TransactionID})
			continue
		}
		if i == 0 {
			continue
		}
		expected := txs[i-1].BalanceAfter.Add(delta)
		if !expected.Equal(tx.BalanceAfter) {
			found = append(found, Discrepancy{
				AccountNumber: accountNumber,
				Kind:          DiscrepancyChain,
				TransactionID: tx.TransactionID,
				Expected:      expected,
				Actual:        tx.BalanceAfter,
			})
		}
	}
	return found
}

// WriteTo prints the report in sections.
func (r ReconciliationReport) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintln(cw, "--- Reconciliation Report ---")

	fmt.Fprintln(cw, "\n[Accounts Matching Their Journal]")
	if len(r.Matched) == 0 {
		fmt.Fprintln(cw, "  None")
	}
	for _, n := range r.Matched {
		fmt.Fprintf(cw, "  Account %d\n", n)
	}

	fmt.Fprintln(cw, "\n[Accounts Without Journal Entries]")
	if len(r.NoHistory) == 0 {
		fmt.Fprintln(cw, "  None")
	}
	for _, n := range r.NoHistory {
		fmt.Fprintf(cw, "  Account %d\n", n)
	}

	fmt.Fprintln(cw, "\n[Discrepancies]")
	if len(r.Discrepancies) == 0 {
		fmt.Fprintln(cw, "  None")
	}
	for _, d := range r.Discrepancies {
		if d.Kind == DiscrepancyType {
			fmt.Fprintf(cw, "  %s: account %d, transaction %s\n", d.Kind, d.AccountNumber, d.TransactionID)
			continue
		}
		fmt.Fprintf(cw, "  %s: account %d, transaction %s, expected %s, found %s\n",
			d.Kind, d.AccountNumber, d.TransactionID, account.Money(d.Expected), account.Money(d.Actual))
	}
	fmt.Fprintln(cw, "\n--- End of Reconciliation Report ---")
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
