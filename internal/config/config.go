// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"bank-accounts/internal/account"
	"bank-accounts/internal/charge"
)

// Store names a persistence backend.
const (
	StoreCSV   = "csv"
	StoreMySQL = "mysql"
)

// Config holds every setting the application reads.
type Config struct {
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	OutputDir   string `env:"OUTPUT_DIR" envDefault:"output"`
	LogFile     string `env:"LOG_FILE" envDefault:"logs/manage_data.log"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Store       string `env:"STORE" envDefault:"csv"`
	DatabaseDSN string `env:"DATABASE_DSN"`
	MetricsFile string `env:"METRICS_FILE"`

	BinlogUser           string `env:"BINLOG_USER"`
	BinlogPassword       string `env:"MYSQL_REPLICATOR_PASSWORD"`
	BinlogServerID       uint32 `env:"BINLOG_SERVER_ID" envDefault:"101"`
	BinlogCheckpointFile string `env:"BINLOG_CHECKPOINT_FILE" envDefault:"last_gtid.txt"`

	LowBalanceLevel       decimal.Decimal `env:"LOW_BALANCE_LEVEL" envDefault:"50.00"`
	LargeTransactionLevel decimal.Decimal `env:"LARGE_TRANSACTION_LEVEL" envDefault:"9999.99"`

	BaseServiceCharge    decimal.Decimal `env:"BASE_SERVICE_CHARGE" envDefault:"0.50"`
	OverdraftPenalty     decimal.Decimal `env:"OVERDRAFT_PENALTY" envDefault:"0.50"`
	SavingsPremium       decimal.Decimal `env:"SAVINGS_PREMIUM" envDefault:"0.50"`
	ManagementFeePercent decimal.Decimal `env:"MANAGEMENT_FEE_PERCENT" envDefault:"0.001"`
	SeniorDiscount       decimal.Decimal `env:"SENIOR_DISCOUNT" envDefault:"0.5"`
}

// Load reads an optional .env file (a missing file is not an error) and
// parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "Load: reading .env")
	}
	return Parse()
}

// Parse reads the process environment into a Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "Parse")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreCSV:
	case StoreMySQL:
		if c.DatabaseDSN == "" {
			return errors.New("Validate: DATABASE_DSN is required when STORE=mysql")
		}
	default:
		return errors.Errorf("Validate: unknown STORE %q", c.Store)
	}
	if c.BaseServiceCharge.IsNegative() || c.OverdraftPenalty.IsNegative() || c.SavingsPremium.IsNegative() {
		return errors.New("Validate: service charges must not be negative")
	}
	return nil
}

// Policy projects the notification thresholds.
func (c *Config) Policy() account.Policy {
	return account.Policy{
		LowBalanceLevel:       c.LowBalanceLevel,
		LargeTransactionLevel: c.LargeTransactionLevel,
	}
}

// Charges projects the fee schedule.
func (c *Config) Charges() charge.Config {
	return charge.Config{
		BaseCharge:           c.BaseServiceCharge,
		OverdraftPenalty:     c.OverdraftPenalty,
		SavingsPremium:       c.SavingsPremium,
		ManagementFeePercent: c.ManagementFeePercent,
		SeniorDiscount:       c.SeniorDiscount,
		SeniorTenure:         charge.SeniorTenure,
	}
}

// AccountOptions combines Policy and Charges for account construction.
func (c *Config) AccountOptions(now func() time.Time) account.Options {
	policy := c.Policy()
	charges := c.Charges()
	return account.Options{Policy: &policy, Charges: &charges, Now: now}
}
