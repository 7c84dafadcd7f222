package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionState - снимок состояния демо-сессии слота.
// После расчета баланс не отрицателен, пока Spinning новый спин невозможен.
type SessionState struct {
	Balance  decimal.Decimal
	Bet      decimal.Decimal
	LastWin  decimal.Decimal
	Spinning bool
	Grid     Grid

	// SpinStartedAt is zero while idle
	SpinStartedAt time.Time
}
