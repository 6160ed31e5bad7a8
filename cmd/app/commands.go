package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bank-accounts/internal/account"
	"bank-accounts/internal/binlog"
	"bank-accounts/internal/config"
	"bank-accounts/internal/db"
	"bank-accounts/models"
)

func init() {
	rootCmd.AddCommand(
		clientsCmd, lookupCmd, showCmd,
		depositCmd, withdrawCmd,
		chargesCmd, applyChargesCmd, applyInterestCmd,
		historyCmd, reconcileCmd, initDBCmd, watchCmd,
	)
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List every client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), true, func(a *app) error {
			out := cmd.OutOrStdout()
			for i, c := range a.svc.Clients() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, c.String())
			}
			return nil
		})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <client-number>",
	Short: "Show a client and their accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			c, err := a.svc.Client(clientNumber)
			if err != nil {
				return err
			}
			accounts, err := a.svc.AccountsForClient(clientNumber)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c.String())
			for _, acc := range accounts {
				fmt.Fprintln(out)
				printAccount(out, acc)
			}
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <account-number>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			acc, err := a.svc.Account(accountNumber)
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), acc)
			return nil
		})
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account-number> <amount>",
	Short: "Deposit into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		amount, err := account.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			if err := a.svc.Deposit(cmd.Context(), accountNumber, amount); err != nil {
				return err
			}
			return printBalance(cmd.OutOrStdout(), a, accountNumber, "Deposited "+account.Money(amount))
		})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account-number> <amount>",
	Short: "Withdraw from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		amount, err := account.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			if err := a.svc.Withdraw(cmd.Context(), accountNumber, amount); err != nil {
				return err
			}
			return printBalance(cmd.OutOrStdout(), a, accountNumber, "Withdrew "+account.Money(amount))
		})
	},
}

var chargesCmd = &cobra.Command{
	Use:   "charges [account-number]",
	Short: "Show the service charges accounts would pay now",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var only []int
		if len(args) == 1 {
			n, err := account.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			only = append(only, n)
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			if only == nil {
				for _, acc := range a.svc.Accounts() {
					only = append(only, acc.AccountNumber())
				}
			}
			for _, n := range only {
				charge, err := a.svc.ServiceCharges(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Account %d: %s\n", n, account.Money(charge))
			}
			return nil
		})
	},
}

var applyChargesCmd = &cobra.Command{
	Use:   "apply-charges",
	Short: "Debit every account's service charge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), true, func(a *app) error {
			results, err := a.svc.ApplyServiceCharges(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(out, "Account %d: charge of %s failed: %v\n", r.AccountNumber, account.Money(r.Charge), r.Err)
					continue
				}
				fmt.Fprintf(out, "Account %d: charged %s\n", r.AccountNumber, account.Money(r.Charge))
			}
			return err
		})
	},
}

var applyInterestCmd = &cobra.Command{
	Use:   "apply-interest <account-number>",
	Short: "Credit an account's interest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), true, func(a *app) error {
			interest, err := a.svc.ApplyInterest(cmd.Context(), accountNumber)
			if err != nil {
				return err
			}
			return printBalance(cmd.OutOrStdout(), a, accountNumber, "Credited interest of "+account.Money(interest))
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <account-number>",
	Short: "Show an account's transaction journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountNumber, err := account.ParseIdentity(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), false, func(a *app) error {
			txs, err := a.svc.History(cmd.Context(), accountNumber)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintf(out, "No transactions for account %d\n", accountNumber)
				return nil
			}
			for _, tx := range txs {
				printTransaction(out, tx)
			}
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check stored balances against the transaction journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), false, func(a *app) error {
			report, err := newReconciliation(a).Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		})
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the MySQL tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), false, func(a *app) error {
			if a.cfg.Store != config.StoreMySQL {
				return errors.Errorf("init-db: STORE is %q, not %q", a.cfg.Store, config.StoreMySQL)
			}
			if err := db.EnsureSchema(cmd.Context(), a.conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow journal entries committed to MySQL by any client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, false, func(a *app) error {
			if a.cfg.Store != config.StoreMySQL {
				return errors.Errorf("watch: STORE is %q, not %q", a.cfg.Store, config.StoreMySQL)
			}
			bcfg, err := binlog.ConfigFromDSN(a.cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if a.cfg.BinlogUser != "" {
				bcfg.User = a.cfg.BinlogUser
				bcfg.Password = a.cfg.BinlogPassword
			}
			bcfg.ServerID = a.cfg.BinlogServerID
			bcfg.CheckpointFile = a.cfg.BinlogCheckpointFile

			out := cmd.OutOrStdout()
			w := binlog.NewWatcher(bcfg, func(tx models.Transaction) error {
				printTransaction(out, tx)
				return nil
			}, a.logger)
			return w.Run(ctx, a.conn)
		})
	},
}

func printAccount(out io.Writer, acc account.Account) {
	fmt.Fprintln(out, acc.String())
	fmt.Fprintf(out, "Service Charges: %s\n", account.Money(acc.ServiceCharges()))
}

func printBalance(out io.Writer, a *app, accountNumber int, what string) error {
	acc, err := a.svc.Account(accountNumber)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s on account %d. Balance: %s\n", what, accountNumber, account.Money(acc.Balance()))
	return nil
}

func printTransaction(out io.Writer, tx models.Transaction) {
	fmt.Fprintf(out, "%s  %d  %-14s %12s  balance %12s  %s\n",
		tx.TransactionTs.Format("2006-01-02 15:04:05"), tx.AccountNumber, tx.TransactionType,
		account.Money(tx.Amount), account.Money(tx.BalanceAfter), tx.TransactionID)
}
