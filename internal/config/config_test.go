package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-accounts/internal/account"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, StoreCSV, cfg.Store)
	assert.Equal(t, "logs/manage_data.log", cfg.LogFile)
	assert.Equal(t, "50.00", cfg.Policy().LowBalanceLevel.StringFixed(2))
	assert.Equal(t, "9999.99", cfg.Policy().LargeTransactionLevel.StringFixed(2))

	charges := cfg.Charges()
	assert.Equal(t, "0.50", charges.BaseCharge.StringFixed(2))
	assert.Equal(t, "0.001", charges.ManagementFeePercent.String())

	assert.Equal(t, uint32(101), cfg.BinlogServerID)
	assert.Equal(t, "last_gtid.txt", cfg.BinlogCheckpointFile)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("LOW_BALANCE_LEVEL", "125.5")
	t.Setenv("BASE_SERVICE_CHARGE", "1.25")
	t.Setenv("DATA_DIR", "/srv/bank")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/srv/bank", cfg.DataDir)
	assert.Equal(t, "125.50", cfg.LowBalanceLevel.StringFixed(2))
	assert.Equal(t, "1.25", cfg.AccountOptions(nil).Charges.BaseCharge.StringFixed(2))
}

func TestZeroChargesFromEnvAreKept(t *testing.T) {
	t.Setenv("BASE_SERVICE_CHARGE", "0")
	t.Setenv("OVERDRAFT_PENALTY", "0")
	t.Setenv("SAVINGS_PREMIUM", "0")
	t.Setenv("MANAGEMENT_FEE_PERCENT", "0")
	t.Setenv("LOW_BALANCE_LEVEL", "0")
	t.Setenv("LARGE_TRANSACTION_LEVEL", "0")

	cfg, err := Parse()
	require.NoError(t, err)
	opts := cfg.AccountOptions(nil)
	require.NotNil(t, opts.Charges)
	require.NotNil(t, opts.Policy)
	assert.True(t, opts.Charges.BaseCharge.IsZero())
	assert.True(t, opts.Charges.SavingsPremium.IsZero())
	assert.True(t, opts.Policy.LargeTransactionLevel.IsZero())

	a := account.NewSavings(1, 1, decimal.NewFromInt(100), account.SavingsTerms{MinimumBalance: decimal.NewFromInt(200)}, opts)
	assert.Equal(t, "0.00", a.ServiceCharges().StringFixed(2))
}

func TestParseRejectsBadDecimal(t *testing.T) {
	t.Setenv("SAVINGS_PREMIUM", "lots")
	_, err := Parse()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE", "mysql")
	_, err := Parse()
	assert.ErrorContains(t, err, "DATABASE_DSN")

	t.Setenv("DATABASE_DSN", "bank:secret@tcp(localhost:3306)/bank?parseTime=true")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, StoreMySQL, cfg.Store)

	t.Setenv("STORE", "mongo")
	_, err = Parse()
	assert.ErrorContains(t, err, "unknown STORE")

	t.Setenv("STORE", "csv")
	t.Setenv("OVERDRAFT_PENALTY", "-1")
	_, err = Parse()
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR=mailbox\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("OUTPUT_DIR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mailbox", cfg.OutputDir)
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
