package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bank-accounts/internal/config"
	"bank-accounts/internal/db"
	"bank-accounts/internal/logging"
	"bank-accounts/internal/notify"
	"bank-accounts/internal/service"
	"bank-accounts/repository"
)

// MailboxFile is where simulated client e-mails are appended, inside the
// output directory.
const MailboxFile = "observer_emails.txt"

// app holds everything a command needs. Build one with newApp and release
// it with Close.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	conn     *sql.DB
	registry *prometheus.Registry

	accounts     repository.AccountRepository
	clients      repository.ClientRepository
	transactions repository.TransactionRepository
	svc          service.AccountService

	closers []func() error
}

func newApp(ctx context.Context) (*app, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.LogFile); cfg.LogFile != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "newApp: log directory")
		}
	}
	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.closers = append(a.closers, func() error { closeLog(); return nil })

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		a.Close()
		return nil, errors.Wrap(err, "newApp: output directory")
	}
	mailbox, err := os.OpenFile(filepath.Join(cfg.OutputDir, MailboxFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "newApp: mailbox")
	}
	a.closers = append(a.closers, mailbox.Close)

	metrics, err := notify.NewMetrics(a.registry)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "newApp: metrics")
	}
	builder := service.NewBuilder(cfg.AccountOptions(time.Now), notify.WithLogger(logger), notify.WithMetrics(metrics))
	a.svc = service.NewAccountService(a.accounts, a.clients, a.transactions, service.Options{
		Builder: builder,
		Mailbox: mailbox,
		Logger:  logger,
	})
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreMySQL:
		conn, err := db.Connect(ctx, a.cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		a.conn = conn
		a.closers = append(a.closers, conn.Close)
		a.accounts = repository.NewMySQLAccountRepository(conn)
		a.clients = repository.NewMySQLClientRepository(conn)
		a.transactions = repository.NewMySQLTransactionRepository(conn)
	default:
		a.accounts = repository.NewCSVAccountRepository(a.cfg.DataDir, a.logger)
		a.clients = repository.NewCSVClientRepository(a.cfg.DataDir, a.logger)
		a.transactions = repository.NewCSVTransactionRepository(a.cfg.DataDir, a.logger)
	}
	a.logger.Debug("store opened", zap.String("store", a.cfg.Store))
	return nil
}

// Close writes the metrics textfile when configured and releases resources
// in reverse order of acquisition.
func (a *app) Close() error {
	var errs error
	if a.cfg.MetricsFile != "" {
		errs = multierr.Append(errs, errors.Wrap(prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry), "Close: metrics"))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, a.closers[i]())
	}
	a.closers = nil
	return errs
}

// withApp runs fn with a fresh app, optionally after loading accounts, and
// closes the app afterwards.
func withApp(ctx context.Context, load bool, fn func(a *app) error) (err error) {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, a.Close()) }()
	if load {
		if err := a.svc.Load(ctx); err != nil {
			return err
		}
	}
	return fn(a)
}

func newReconciliation(a *app) service.ReconciliationService {
	return service.NewReconciliationService(a.accounts, a.transactions, a.logger)
}
