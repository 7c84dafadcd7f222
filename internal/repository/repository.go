package repository

import (
	"context"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

// LedgerRepository - журнал спинов сессии, новые записи первыми
type LedgerRepository interface {
	Append(entry model.LedgerEntry)
	Clear()
	List() []model.LedgerEntry
	Len() int
	Stats() model.LedgerStats
}

type BankrollRepository interface {
	ListPlatforms(ctx context.Context) ([]model.Platform, error)
	GetPlatform(ctx context.Context, id string) (*model.Platform, error)
	AddToBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)

	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	ListTransactions(ctx context.Context, platformID string) ([]model.Transaction, error)

	GetBonus(ctx context.Context, id string) (*model.Bonus, error)
	UpdateBonus(ctx context.Context, bonus *model.Bonus) error
}
