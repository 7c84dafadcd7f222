package bankroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlatformResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type SummaryResponse struct {
	Platforms []PlatformResponse `json:"platforms"`
	Total     decimal.Decimal    `json:"total"` // Сумма балансов всех площадок
}

type TransactionRequest struct {
	PlatformID string          `json:"platform_id"`
	Type       string          `json:"type"`      // DEPOSIT | WITHDRAWAL | WIN | LOSS
	GameType   string          `json:"game_type"` // SLOTS | LIVE_CASINO | SPORTS | POKER
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date"`
	Note       string          `json:"note"`
}

type TransactionResponse struct {
	ID         string          `json:"id"`
	PlatformID string          `json:"platform_id"`
	Type       string          `json:"type"`
	GameType   string          `json:"game_type,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
}

type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type WagerRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BonusProgressResponse struct {
	ID               string          `json:"id"`
	PlatformID       string          `json:"platform_id"`
	Amount           decimal.Decimal `json:"amount"`
	Multiplier       int             `json:"multiplier"`
	WageringRequired decimal.Decimal `json:"wagering_required"`
	WageringDone     decimal.Decimal `json:"wagering_done"`
	Remaining        decimal.Decimal `json:"remaining"`
	Progress         float64         `json:"progress"` // 0..100
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"` // nil - без срока
	IsActive         bool            `json:"is_active"`
	Expired          bool            `json:"expired"`
}
