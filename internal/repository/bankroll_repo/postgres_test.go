package bankroll_repo

import (
	"testing"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBalanceQuery(t *testing.T) {
	delta := decimal.NewFromInt(-25)

	sqlStr, args, err := addBalanceQuery("1", delta).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE platforms SET balance = balance + $1 WHERE id = $2 AND balance + $3 >= 0 RETURNING balance",
		sqlStr)
	assert.Equal(t, []interface{}{delta, "1", delta}, args)
}

func TestListTransactionsQuery(t *testing.T) {
	sqlStr, args, err := listTransactionsQuery("").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, platform_id, type, game_type, amount, created_at, note FROM transactions ORDER BY created_at DESC", sqlStr)
	assert.Empty(t, args)

	sqlStr, args, err = listTransactionsQuery("2").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, platform_id, type, game_type, amount, created_at, note FROM transactions WHERE platform_id = $1 ORDER BY created_at DESC", sqlStr)
	assert.Equal(t, []interface{}{"2"}, args)
}

func TestSeedPlatformQuery(t *testing.T) {
	sqlStr, _, err := seedPlatformQuery(model.Platform{ID: "1", Name: "Stake", Balance: decimal.NewFromInt(1), Currency: "BRL"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO platforms (id,name,balance,currency) VALUES ($1,$2,$3,$4) ON CONFLICT (id) DO NOTHING", sqlStr)
}
