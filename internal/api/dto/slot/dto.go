package slot

import (
	"time"

	"github.com/shopspring/decimal"
)

type SpinRequest struct {
	Bet decimal.Decimal `json:"bet"` // Ставка, 0 - текущая ставка сессии
}

type SpinResponse struct {
	EntryID string          `json:"entry_id"` // ID записи журнала
	Bet     decimal.Decimal `json:"bet"`
	Grid    [3][3]string    `json:"grid"`    // grid[reel][row], ID символов
	Payout  decimal.Decimal `json:"payout"`  // Выплата
	Balance decimal.Decimal `json:"balance"` // Баланс после спина
}

type StateResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	Bet           decimal.Decimal `json:"bet"`
	LastWin       decimal.Decimal `json:"last_win"`
	Spinning      bool            `json:"spinning"`
	Grid          [3][3]string    `json:"grid"`
	SpinStartedAt *time.Time      `json:"spin_started_at,omitempty"`
}

type BetRequest struct {
	Steps int `json:"steps"` // Шаги ставки, может быть отрицательным
}

type BetResponse struct {
	Bet decimal.Decimal `json:"bet"`
}

type LedgerEntry struct {
	ID        string          `json:"id"`
	Bet       decimal.Decimal `json:"bet"`
	Win       decimal.Decimal `json:"win"`
	Balance   decimal.Decimal `json:"balance"`
	Timestamp time.Time       `json:"timestamp"`
}

type LedgerResponse struct {
	Entries []LedgerEntry `json:"entries"` // Новые первыми
}

type StatsResponse struct {
	Spins        int             `json:"spins"`
	Wins         int             `json:"wins"`
	TotalBet     decimal.Decimal `json:"total_bet"`
	TotalWin     decimal.Decimal `json:"total_win"`
	RTP          float64         `json:"rtp"`
	HitFrequency float64         `json:"hit_frequency"`
}

type Symbol struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type SymbolsResponse struct {
	Symbols []Symbol `json:"symbols"`
}

// SpinEventMessage - сообщение websocket-потока /slot/events
type SpinEventMessage struct {
	Kind    string          `json:"kind"`
	Grid    [3][3]string    `json:"grid"`
	Bet     decimal.Decimal `json:"bet"`
	Payout  decimal.Decimal `json:"payout"`
	Balance decimal.Decimal `json:"balance"`
	At      time.Time       `json:"at"`
}
