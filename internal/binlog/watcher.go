// Package binlog follows the MySQL binary log and reports every journal
// entry inserted into the transactions table, resuming from a saved GTID
// set.
package binlog

import (
	"context"
	"database/sql"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bank-accounts/models"
)

// TransactionsTable is the table whose inserts are reported.
const TransactionsTable = "transactions"

// Config describes the replication connection.
type Config struct {
	ServerID       uint32
	Host           string
	Port           uint16
	User           string
	Password       string
	Schema         string
	CheckpointFile string
}

// ConfigFromDSN fills host, port, user, password and schema from a
// go-sql-driver DSN. Replication usually needs a dedicated user; callers
// override User and Password afterwards when one is configured.
func ConfigFromDSN(dsn string) (Config, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return Config{}, errors.Wrap(err, "ConfigFromDSN")
	}
	host, portText, err := net.SplitHostPort(parsed.Addr)
	if err != nil {
		return Config{}, errors.Wrapf(err, "ConfigFromDSN: address %q", parsed.Addr)
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil {
		return Config{}, errors.Wrapf(err, "ConfigFromDSN: port %q", portText)
	}
	return Config{
		ServerID: 101,
		Host:     host,
		Port:     uint16(port),
		User:     parsed.User,
		Password: parsed.Passwd,
		Schema:   parsed.DBName,
	}, nil
}

// Handler receives each inserted journal entry in commit order.
type Handler func(tx models.Transaction) error

// Querier is the part of *sql.DB used to read the server's GTID state.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Watcher streams journal inserts to a Handler.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  *zap.Logger
}

// NewWatcher creates a watcher. logger may be nil.
func NewWatcher(cfg Config, handler Handler, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{cfg: cfg, handler: handler, logger: logger}
}

// Run follows the binlog until ctx is cancelled. It starts from the GTID set
// in the checkpoint file, or from the server's executed set when there is no
// checkpoint yet, and saves the set after every committed transaction.
func (w *Watcher) Run(ctx context.Context, db Querier) error {
	gset, err := w.StartPosition(ctx, db)
	if err != nil {
		return err
	}

	syncer := replication.NewBinlogSyncer(replication.BinlogSyncerConfig{
		ServerID:   w.cfg.ServerID,
		Flavor:     gomysql.MySQLFlavor,
		Host:       w.cfg.Host,
		Port:       w.cfg.Port,
		User:       w.cfg.User,
		Password:   w.cfg.Password,
		ParseTime:  true,
		UseDecimal: true,
	})
	defer syncer.Close()

	streamer, err := syncer.StartSyncGTID(gset)
	if err != nil {
		return errors.Wrap(err, "Run: failed to start GTID sync")
	}
	w.logger.Info("binlog streamer started", zap.String("gtid_set", gset.String()))

	for {
		ev, err := streamer.GetEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, "Run: error fetching event")
		}
		if err := w.Handle(ev); err != nil {
			return err
		}
	}
}

// StartPosition returns the GTID set to resume from.
func (w *Watcher) StartPosition(ctx context.Context, db Querier) (gomysql.GTIDSet, error) {
	var text string
	if w.cfg.CheckpointFile != "" {
		data, err := os.ReadFile(w.cfg.CheckpointFile)
		switch {
		case err == nil:
			text = string(data)
		case errors.Is(err, os.ErrNotExist):
			w.logger.Info("no saved GTID set, starting from the server's executed set")
		default:
			return nil, errors.Wrap(err, "StartPosition: reading checkpoint")
		}
	}
	if text == "" {
		if err := db.QueryRowContext(ctx, "SELECT @@global.gtid_executed").Scan(&text); err != nil {
			return nil, errors.Wrap(err, "StartPosition: failed to get executed GTID set")
		}
	}
	gset, err := gomysql.ParseGTIDSet(gomysql.MySQLFlavor, text)
	if err != nil {
		return nil, errors.Wrapf(err, "StartPosition: invalid GTID set %q", text)
	}
	return gset, nil
}

// Handle processes one binlog event: inserts into the watched transactions
// table go to the handler, and transaction commits advance the checkpoint.
func (w *Watcher) Handle(ev *replication.BinlogEvent) error {
	switch e := ev.Event.(type) {
	case *replication.RowsEvent:
		if !isInsert(ev.Header.EventType) || e.Table == nil ||
			string(e.Table.Schema) != w.cfg.Schema || string(e.Table.Table) != TransactionsTable {
			return nil
		}
		for _, row := range e.Rows {
			tx, err := decodeTransaction(row)
			if err != nil {
				w.logger.Warn("skipping binlog row", zap.Error(err))
				continue
			}
			if err := w.handler(tx); err != nil {
				return errors.Wrapf(err, "Handle: transaction %s", tx.TransactionID)
			}
		}
	case *replication.XIDEvent:
		if e.GSet != nil {
			return w.saveCheckpoint(e.GSet.String())
		}
	}
	return nil
}

func (w *Watcher) saveCheckpoint(gtid string) error {
	if w.cfg.CheckpointFile == "" {
		return nil
	}
	tmp := w.cfg.CheckpointFile + ".tmp"
	if err := os.WriteFile(tmp, []byte(gtid), 0o644); err != nil {
		return errors.Wrap(err, "saveCheckpoint")
	}
	if err := os.Rename(tmp, w.cfg.CheckpointFile); err != nil {
		return errors.Wrapf(err, "saveCheckpoint: replacing %s", filepath.Base(w.cfg.CheckpointFile))
	}
	return nil
}

func isInsert(t replication.EventType) bool {
	switch t {
	case replication.WRITE_ROWS_EVENTv0, replication.WRITE_ROWS_EVENTv1, replication.WRITE_ROWS_EVENTv2:
		return true
	}
	return false
}

// decodeTransaction maps a row image in transactions column order.
func decodeTransaction(row []interface{}) (models.Transaction, error) {
	var tx models.Transaction
	if len(row) < 6 {
		return tx, errors.Errorf("row has %d columns, want 6", len(row))
	}
	var err error
	if tx.TransactionID, err = asString(row[0]); err != nil {
		return tx, errors.Wrap(err, "transaction_id")
	}
	if tx.AccountNumber, err = asInt(row[1]); err != nil {
		return tx, errors.Wrap(err, "account_number")
	}
	if tx.TransactionType, err = asString(row[2]); err != nil {
		return tx, errors.Wrap(err, "transaction_type")
	}
	if tx.Amount, err = asDecimal(row[3]); err != nil {
		return tx, errors.Wrap(err, "amount")
	}
	if tx.BalanceAfter, err = asDecimal(row[4]); err != nil {
		return tx, errors.Wrap(err, "balance_after")
	}
	if tx.TransactionTs, err = asTime(row[5]); err != nil {
		return tx, errors.Wrap(err, "transaction_ts")
	}
	return tx, nil
}

func asString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", errors.Errorf("unexpected type %T", v)
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, errors.Errorf("unexpected type %T", v)
}

func asDecimal(v interface{}) (decimal.Decimal, error) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, nil
	case string:
		return decimal.NewFromString(d)
	case float64:
		return decimal.NewFromFloat(d), nil
	}
	return decimal.Zero, errors.Errorf("unexpected type %T", v)
}

func asTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse("2006-01-02 15:04:05", t)
	}
	return time.Time{}, errors.Errorf("unexpected type %T", v)
}
