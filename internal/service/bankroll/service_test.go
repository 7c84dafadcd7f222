package bankroll

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quant_terminal/internal/config/env"
	"quant_terminal/internal/logger"
	"quant_terminal/internal/model"
	"quant_terminal/internal/repository/bankroll_repo"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T) *serv {
	t.Helper()
	repo := bankroll_repo.NewMemoryRepository(
		[]model.Platform{
			{ID: "1", Name: "Stake", Balance: dec("12540.50"), Currency: "BRL"},
			{ID: "2", Name: "Bet365", Balance: dec("4200.00"), Currency: "BRL"},
			{ID: "3", Name: "Blaze", Balance: dec("850.25"), Currency: "BRL"},
		},
		[]model.Bonus{
			{
				ID:               "b1",
				PlatformID:       "1",
				Amount:           dec("500"),
				Multiplier:       40,
				WageringRequired: dec("20000"),
				WageringDone:     dec("14500"),
				ExpiryDate:       testNow.Add(5 * 24 * time.Hour),
				IsActive:         true,
			},
			{
				ID:               "old",
				PlatformID:       "2",
				Amount:           dec("100"),
				Multiplier:       30,
				WageringRequired: dec("3000"),
				WageringDone:     dec("0"),
				ExpiryDate:       testNow.Add(-time.Hour),
				IsActive:         true,
			},
		},
	)
	clock := func() time.Time { return testNow }
	return NewBankrollService(repo, repo, WithClock(clock)).(*serv)
}

func TestSummary_TotalsAllPlatforms(t *testing.T) {
	s := newTestService(t)

	sum, err := s.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, sum.Platforms, 3)
	assert.Equal(t, "Stake", sum.Platforms[0].Name)
	assert.True(t, dec("17590.75").Equal(sum.Total))
}

func TestRecordTransaction_CreditAndDebit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	dep, err := s.RecordTransaction(ctx, model.Transaction{PlatformID: "3", Type: model.TransactionDeposit, Amount: dec("149.75")})
	require.NoError(t, err)
	assert.NotEmpty(t, dep.ID)
	assert.Equal(t, testNow, dep.Date)

	_, err = s.RecordTransaction(ctx, model.Transaction{
		PlatformID: "3",
		Type:       model.TransactionLoss,
		GameType:   model.GameSlots,
		Amount:     dec("500"),
		Date:       testNow.Add(time.Minute),
	})
	require.NoError(t, err)

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(sum.Platforms[2].Balance))

	txs, err := s.Transactions(ctx, "3")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.TransactionLoss, txs[0].Type)
	assert.Equal(t, model.TransactionDeposit, txs[1].Type)
}

func TestRecordTransaction_LogsPlatform(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(t)
	s.logger = zerolog.New(&buf)

	_, err := s.RecordTransaction(context.Background(), model.Transaction{PlatformID: "2", Type: model.TransactionWin, Amount: dec("10")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"`+logger.PlatformKey+`":"2"`)
}

func TestRecordTransaction_Rejections(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		err  error
	}{
		{"zero amount", model.Transaction{PlatformID: "1", Type: model.TransactionDeposit}, model.ErrInvalidAmount},
		{"bad type", model.Transaction{PlatformID: "1", Type: "BONUS", Amount: dec("1")}, model.ErrInvalidType},
		{"bad game", model.Transaction{PlatformID: "1", Type: model.TransactionWin, GameType: "BINGO", Amount: dec("1")}, model.ErrInvalidType},
		{"unknown platform", model.Transaction{PlatformID: "9", Type: model.TransactionDeposit, Amount: dec("1")}, model.ErrNotFound},
		{"overdraw", model.Transaction{PlatformID: "3", Type: model.TransactionWithdrawal, Amount: dec("850.26")}, model.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)

			_, err := s.RecordTransaction(context.Background(), tt.tx)
			require.ErrorIs(t, err, tt.err)

			sum, err := s.Summary(context.Background())
			require.NoError(t, err)
			assert.True(t, dec("17590.75").Equal(sum.Total))
		})
	}
}

func TestTransactions_UnknownPlatform(t *testing.T) {
	s := newTestService(t)

	_, err := s.Transactions(context.Background(), "nope")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestBonusProgress(t *testing.T) {
	s := newTestService(t)

	p, err := s.BonusProgress(context.Background(), "b1")
	require.NoError(t, err)
	assert.InDelta(t, 72.5, p.Progress, 1e-9)
	assert.True(t, dec("5500").Equal(p.Remaining))
	assert.False(t, p.Expired)

	_, err = s.BonusProgress(context.Background(), "zzz")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecordWager_CapsAndDeactivates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p, err := s.RecordWager(ctx, "b1", dec("500"))
	require.NoError(t, err)
	assert.True(t, dec("15000").Equal(p.Bonus.WageringDone))
	assert.True(t, p.Bonus.IsActive)

	p, err = s.RecordWager(ctx, "b1", dec("10000"))
	require.NoError(t, err)
	assert.True(t, dec("20000").Equal(p.Bonus.WageringDone))
	assert.True(t, p.Remaining.IsZero())
	assert.InDelta(t, 100.0, p.Progress, 1e-9)
	assert.False(t, p.Bonus.IsActive)

	_, err = s.RecordWager(ctx, "b1", dec("1"))
	require.ErrorIs(t, err, model.ErrBonusInactive)
}

func TestRecordWager_ExpiredBonus(t *testing.T) {
	s := newTestService(t)

	_, err := s.RecordWager(context.Background(), "old", dec("10"))
	require.ErrorIs(t, err, model.ErrBonusInactive)

	p, err := s.BonusProgress(context.Background(), "old")
	require.NoError(t, err)
	assert.True(t, p.Expired)
}

func TestRecordWager_InvalidAmount(t *testing.T) {
	s := newTestService(t)

	_, err := s.RecordWager(context.Background(), "b1", decimal.Zero)
	require.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestRecordWager_BonusWithoutExpiryFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bankroll:
  platforms:
    - id: "1"
      name: Stake
  bonuses:
    - id: b1
      platform_id: "1"
      wagering_required: 100
`), 0o600))
	cfg, err := env.NewBankrollConfigFromYAML(path, testNow)
	require.NoError(t, err)

	repo := bankroll_repo.NewMemoryRepository(cfg.Platforms(), cfg.Bonuses())
	later := testNow.Add(365 * 24 * time.Hour)
	s := NewBankrollService(repo, repo, WithClock(func() time.Time { return later }))

	p, err := s.RecordWager(context.Background(), "b1", dec("40"))
	require.NoError(t, err)
	assert.False(t, p.Expired)
	assert.True(t, p.Bonus.IsActive)
	assert.True(t, dec("60").Equal(p.Remaining))
}
