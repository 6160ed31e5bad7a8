package charge

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubAccount struct {
	balance decimal.Decimal
	opened  time.Time
}

func (a stubAccount) Balance() decimal.Decimal { return a.balance }
func (a stubAccount) OpenedDate() time.Time    { return a.opened }

type balanceOnly struct{ balance decimal.Decimal }

func (a balanceOnly) Balance() decimal.Decimal { return a.balance }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOverdraftCharge(t *testing.T) {
	cfg := DefaultConfig()
	limit := decimal.NewNullDecimal(dec("-500"))
	s := NewOverdraft(cfg, decimal.Zero, limit)

	tests := []struct {
		name    string
		balance string
		want    string
	}{
		{"above minimum", "1400", "0.50"},
		{"at minimum", "0", "0.50"},
		{"below minimum within limit", "-100", "1.00"},
		{"beyond overdraft limit", "-600", "1.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Charge(balanceOnly{dec(tt.balance)})
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestOverdraftChargeWithoutLimit(t *testing.T) {
	s := NewOverdraft(DefaultConfig(), dec("100"), decimal.NullDecimal{})
	assert.Equal(t, "0.50", s.Charge(balanceOnly{dec("200")}).StringFixed(2))
	assert.Equal(t, "1.00", s.Charge(balanceOnly{dec("-900")}).StringFixed(2))
}

func TestOverdraftChargePerUnitRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OverdraftRate = dec("0.05")
	s := NewOverdraft(cfg, decimal.Zero, decimal.NullDecimal{})

	// 0.50 base + 0.50 penalty + 200 * 0.05
	assert.Equal(t, "11.00", s.Charge(balanceOnly{dec("-200")}).StringFixed(2))
	assert.Equal(t, "0.50", s.Charge(balanceOnly{dec("10")}).StringFixed(2))
}

func TestMinimumBalanceCharge(t *testing.T) {
	s := NewMinimumBalance(DefaultConfig(), dec("200"))

	assert.Equal(t, "0.50", s.Charge(balanceOnly{dec("500")}).StringFixed(2))
	assert.Equal(t, "0.50", s.Charge(balanceOnly{dec("200")}).StringFixed(2))
	assert.Equal(t, "1.00", s.Charge(balanceOnly{dec("100")}).StringFixed(2))
}

func TestManagementFeeCharge(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := NewManagementFee(DefaultConfig(), clock)

	recent := stubAccount{balance: dec("10000"), opened: time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "10.50", s.Charge(recent).StringFixed(2))

	// 20000 * 0.001 = 20.00, halved by the senior discount.
	old := stubAccount{balance: dec("20000"), opened: time.Date(2000, 8, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "10.50", s.Charge(old).StringFixed(2))

	noDiscount := DefaultConfig()
	noDiscount.SeniorDiscount = decimal.Zero
	assert.Equal(t, "20.50", NewManagementFee(noDiscount, clock).Charge(old).StringFixed(2))
}

func TestManagementFeeFloorsAtBase(t *testing.T) {
	s := NewManagementFee(DefaultConfig(), nil)

	assert.Equal(t, "0.50", s.Charge(stubAccount{balance: decimal.Zero}).StringFixed(2))
	assert.Equal(t, "0.50", s.Charge(stubAccount{balance: dec("-250")}).StringFixed(2))
}

func TestManagementFeeWithoutOpenedDate(t *testing.T) {
	s := NewManagementFee(DefaultConfig(), nil)

	assert.Equal(t, "10.50", s.Charge(balanceOnly{dec("10000")}).StringFixed(2))
	assert.Equal(t, "10.50", s.Charge(stubAccount{balance: dec("10000")}).StringFixed(2))
}

func TestManagementFeeRoundsToCents(t *testing.T) {
	s := NewManagementFee(DefaultConfig(), nil)
	assert.Equal(t, "1.73", s.Charge(balanceOnly{dec("1234.56")}).StringFixed(2))
}

func TestChargeIsIdempotent(t *testing.T) {
	acct := balanceOnly{dec("-42.10")}
	s := NewOverdraft(DefaultConfig(), decimal.Zero, decimal.NewNullDecimal(dec("-20")))
	first := s.Charge(acct)
	second := s.Charge(acct)
	assert.True(t, first.Equal(second))
}
