package bankroll_repo

import (
	"context"
	"errors"

	"quant_terminal/internal/model"
	"quant_terminal/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	tablePlatforms    = "platforms"
	tableTransactions = "transactions"
	tableBonuses      = "bonuses"

	colID               = "id"
	colName             = "name"
	colBalance          = "balance"
	colCurrency         = "currency"
	colPlatformID       = "platform_id"
	colType             = "type"
	colGameType         = "game_type"
	colAmount           = "amount"
	colCreatedAt        = "created_at"
	colNote             = "note"
	colMultiplier       = "multiplier"
	colWageringRequired = "wagering_required"
	colWageringDone     = "wagering_done"
	colExpiryDate       = "expiry_date"
	colIsActive         = "is_active"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewPGRepository - хранилище дашборда в Postgres.
// Запросы выполняются внутри транзакции trm, если она есть в контексте.
func NewPGRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.BankrollRepository {
	if getter == nil {
		getter = trmpgx.DefaultCtxGetter
	}
	return &repo{dbc: dbc, getter: getter}
}

func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// Seed - вставляет стартовые площадки и бонусы, существующие строки не трогает
func Seed(ctx context.Context, dbc *pgxpool.Pool, platforms []model.Platform, bonuses []model.Bonus) error {
	for _, p := range platforms {
		sqlStr, args, err := seedPlatformQuery(p).ToSql()
		if err != nil {
			return err
		}
		if _, err = dbc.Exec(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	for _, b := range bonuses {
		sqlStr, args, err := seedBonusQuery(b).ToSql()
		if err != nil {
			return err
		}
		if _, err = dbc.Exec(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return nil
}

func seedPlatformQuery(p model.Platform) sq.InsertBuilder {
	return psql.Insert(tablePlatforms).
		Columns(colID, colName, colBalance, colCurrency).
		Values(p.ID, p.Name, p.Balance, p.Currency).
		Suffix("ON CONFLICT (" + colID + ") DO NOTHING")
}

func seedBonusQuery(b model.Bonus) sq.InsertBuilder {
	return psql.Insert(tableBonuses).
		Columns(colID, colPlatformID, colAmount, colMultiplier, colWageringRequired, colWageringDone, colExpiryDate, colIsActive).
		Values(b.ID, b.PlatformID, b.Amount, b.Multiplier, b.WageringRequired, b.WageringDone, b.ExpiryDate, b.IsActive).
		Suffix("ON CONFLICT (" + colID + ") DO NOTHING")
}

// ListPlatforms - все площадки в порядке id
func (r *repo) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	sqlStr, args, err := psql.Select(colID, colName, colBalance, colCurrency).
		From(tablePlatforms).
		OrderBy(colID).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Platform
	for rows.Next() {
		var p model.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.Balance, &p.Currency); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPlatform - площадка по id
func (r *repo) GetPlatform(ctx context.Context, id string) (*model.Platform, error) {
	sqlStr, args, err := psql.Select(colID, colName, colBalance, colCurrency).
		From(tablePlatforms).
		Where(sq.Eq{colID: id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p model.Platform
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&p.ID, &p.Name, &p.Balance, &p.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func addBalanceQuery(id string, delta decimal.Decimal) sq.UpdateBuilder {
	return psql.Update(tablePlatforms).
		Set(colBalance, sq.Expr(colBalance+" + ?", delta)).
		Where(sq.Eq{colID: id}).
		Where(sq.Expr(colBalance+" + ? >= 0", delta)).
		Suffix("RETURNING " + colBalance)
}

// AddToBalance - атомарно изменяет баланс площадки.
// Если строка не обновилась, различаем отсутствие площадки и нехватку средств.
func (r *repo) AddToBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	sqlStr, args, err := addBalanceQuery(id, delta).ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}

	p, err := r.GetPlatform(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Balance, model.ErrInsufficientFunds
}

func (r *repo) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	sqlStr, args, err := psql.Insert(tableTransactions).
		Columns(colID, colPlatformID, colType, colGameType, colAmount, colCreatedAt, colNote).
		Values(tx.ID, tx.PlatformID, string(tx.Type), string(tx.GameType), tx.Amount, tx.Date, tx.Note).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}

func listTransactionsQuery(platformID string) sq.SelectBuilder {
	q := psql.Select(colID, colPlatformID, colType, colGameType, colAmount, colCreatedAt, colNote).
		From(tableTransactions).
		OrderBy(colCreatedAt + " DESC")
	if platformID != "" {
		q = q.Where(sq.Eq{colPlatformID: platformID})
	}
	return q
}

func (r *repo) ListTransactions(ctx context.Context, platformID string) ([]model.Transaction, error) {
	sqlStr, args, err := listTransactionsQuery(platformID).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t        model.Transaction
			txType   string
			gameType string
		)
		if err := rows.Scan(&t.ID, &t.PlatformID, &txType, &gameType, &t.Amount, &t.Date, &t.Note); err != nil {
			return nil, err
		}
		t.Type = model.TransactionType(txType)
		t.GameType = model.GameType(gameType)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) GetBonus(ctx context.Context, id string) (*model.Bonus, error) {
	sqlStr, args, err := psql.Select(colID, colPlatformID, colAmount, colMultiplier, colWageringRequired, colWageringDone, colExpiryDate, colIsActive).
		From(tableBonuses).
		Where(sq.Eq{colID: id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var b model.Bonus
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).
		Scan(&b.ID, &b.PlatformID, &b.Amount, &b.Multiplier, &b.WageringRequired, &b.WageringDone, &b.ExpiryDate, &b.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repo) UpdateBonus(ctx context.Context, bonus *model.Bonus) error {
	sqlStr, args, err := psql.Update(tableBonuses).
		Set(colWageringDone, bonus.WageringDone).
		Set(colIsActive, bonus.IsActive).
		Where(sq.Eq{colID: bonus.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
