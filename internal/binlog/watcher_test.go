package binlog

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-accounts/models"
)

const gtid = "3e11fa47-71ca-11e1-9e33-c80aa9429562:1-5"

func TestConfigFromDSN(t *testing.T) {
	cfg, err := ConfigFromDSN("bank:secret@tcp(db.internal:3307)/bank?parseTime=true")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, uint16(3307), cfg.Port)
	assert.Equal(t, "bank", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "bank", cfg.Schema)

	_, err = ConfigFromDSN("not a dsn")
	assert.Error(t, err)
}

func rowsEvent(eventType replication.EventType, schema, table string, rows ...[]interface{}) *replication.BinlogEvent {
	return &replication.BinlogEvent{
		Header: &replication.EventHeader{EventType: eventType},
		Event: &replication.RowsEvent{
			Table: &replication.TableMapEvent{Schema: []byte(schema), Table: []byte(table)},
			Rows:  rows,
		},
	}
}

func TestHandleInsertRows(t *testing.T) {
	var got []models.Transaction
	w := NewWatcher(Config{Schema: "bank"}, func(tx models.Transaction) error {
		got = append(got, tx)
		return nil
	}, nil)
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, w.Handle(rowsEvent(replication.WRITE_ROWS_EVENTv2, "bank", TransactionsTable,
		[]interface{}{"tx-1", int32(10001), "DEPOSIT", decimal.RequireFromString("25.00"), decimal.RequireFromString("665.00"), ts, int64(1)},
		[]interface{}{"tx-2", int32(10001), "WITHDRAWAL", "5.00", "660.00", "2024-05-01 09:31:00.250000", int64(2)},
		[]interface{}{"broken", "not-a-number"},
	)))
	require.Len(t, got, 2)
	assert.Equal(t, "tx-1", got[0].TransactionID)
	assert.Equal(t, 10001, got[0].AccountNumber)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, ts, got[0].TransactionTs)
	assert.True(t, got[1].BalanceAfter.Equal(decimal.RequireFromString("660")))
	assert.Equal(t, time.Date(2024, 5, 1, 9, 31, 0, 250000000, time.UTC), got[1].TransactionTs)

	// Other tables, other schemas and updates are ignored.
	require.NoError(t, w.Handle(rowsEvent(replication.WRITE_ROWS_EVENTv2, "bank", "accounts", []interface{}{"x"})))
	require.NoError(t, w.Handle(rowsEvent(replication.WRITE_ROWS_EVENTv2, "other", TransactionsTable, []interface{}{"x"})))
	require.NoError(t, w.Handle(rowsEvent(replication.UPDATE_ROWS_EVENTv2, "bank", TransactionsTable, []interface{}{"x"})))
	assert.Len(t, got, 2)
}

func TestHandlerErrorStopsWatcher(t *testing.T) {
	w := NewWatcher(Config{Schema: "bank"}, func(models.Transaction) error { return assert.AnError }, nil)
	err := w.Handle(rowsEvent(replication.WRITE_ROWS_EVENTv1, "bank", TransactionsTable,
		[]interface{}{"tx-1", int64(1), "DEPOSIT", "1", "1", "2024-05-01 09:31:00"}))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCommitSavesCheckpoint(t *testing.T) {
	checkpoint := filepath.Join(t.TempDir(), "last_gtid.txt")
	w := NewWatcher(Config{CheckpointFile: checkpoint}, nil, nil)
	gset, err := gomysql.ParseGTIDSet(gomysql.MySQLFlavor, gtid)
	require.NoError(t, err)

	require.NoError(t, w.Handle(&replication.BinlogEvent{
		Header: &replication.EventHeader{EventType: replication.XID_EVENT},
		Event:  &replication.XIDEvent{XID: 7, GSet: gset},
	}))
	data, err := os.ReadFile(checkpoint)
	require.NoError(t, err)
	assert.Equal(t, gset.String(), string(data))

	resumed, err := w.StartPosition(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, gset.String(), resumed.String())
}

func TestStartPositionFromServer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT @@global.gtid_executed")).
		WillReturnRows(sqlmock.NewRows([]string{"@@global.gtid_executed"}).AddRow(gtid))

	w := NewWatcher(Config{CheckpointFile: filepath.Join(t.TempDir(), "missing.txt")}, nil, nil)
	gset, err := w.StartPosition(context.Background(), db)
	require.NoError(t, err)
	assert.Contains(t, gset.String(), "3e11fa47-71ca-11e1-9e33-c80aa9429562")
	assert.NoError(t, mock.ExpectationsWereMet())
}
