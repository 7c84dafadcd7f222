package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionWin        TransactionType = "WIN"
	TransactionLoss       TransactionType = "LOSS"
)

// Credit reports whether the transaction type increases the platform balance.
func (t TransactionType) Credit() bool {
	return t == TransactionDeposit || t == TransactionWin
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionWin, TransactionLoss:
		return true
	}
	return false
}

type GameType string

const (
	GameSlots      GameType = "SLOTS"
	GameLiveCasino GameType = "LIVE_CASINO"
	GameSports     GameType = "SPORTS"
	GamePoker      GameType = "POKER"
)

func (g GameType) Valid() bool {
	switch g {
	case "", GameSlots, GameLiveCasino, GameSports, GamePoker:
		return true
	}
	return false
}

// Platform - виртуальный баланс на площадке
type Platform struct {
	ID       string
	Name     string
	Balance  decimal.Decimal
	Currency string
}

type Transaction struct {
	ID         string
	PlatformID string
	Type       TransactionType
	GameType   GameType
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
}

type Bonus struct {
	ID               string
	PlatformID       string
	Amount           decimal.Decimal
	Multiplier       int
	WageringRequired decimal.Decimal
	WageringDone     decimal.Decimal
	ExpiryDate       time.Time
	IsActive         bool
}

// BonusProgress - прогресс отыгрыша бонуса
type BonusProgress struct {
	Bonus     Bonus
	Progress  float64 // percent, 0..100
	Remaining decimal.Decimal
	Expired   bool
}

type BankrollSummary struct {
	Platforms []Platform
	Total     decimal.Decimal
}
