package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Reels - количество барабанов
	Reels = 3
	// Rows - количество строк на барабане
	Rows = 3
	// PaylineRow - единственная оцениваемая строка (средняя)
	PaylineRow = 1
)

// Symbol - неизменяемая запись каталога. Icon и Color только для отображения.
type Symbol struct {
	ID    string
	Value int64
	Icon  string
	Color string
}

// Grid хранится по барабанам: Grid[reel][row]
type Grid [Reels][Rows]Symbol

// Payline - символы средней строки слева направо
func (g Grid) Payline() [Reels]Symbol {
	var line [Reels]Symbol
	for r := 0; r < Reels; r++ {
		line[r] = g[r][PaylineRow]
	}
	return line
}

// IDs - идентификаторы символов в той же раскладке
func (g Grid) IDs() [Reels][Rows]string {
	var ids [Reels][Rows]string
	for r := 0; r < Reels; r++ {
		for c := 0; c < Rows; c++ {
			ids[r][c] = g[r][c].ID
		}
	}
	return ids
}

// SpinOutcome - результат одного завершенного спина
type SpinOutcome struct {
	EntryID string
	Bet     decimal.Decimal
	Grid    Grid
	Payout  decimal.Decimal
	Balance decimal.Decimal
}

// LedgerEntry после создания не меняется
type LedgerEntry struct {
	ID        string
	Bet       decimal.Decimal
	Win       decimal.Decimal
	Balance   decimal.Decimal
	Timestamp time.Time
}

// LedgerStats - статистика по окну журнала
type LedgerStats struct {
	Spins        int
	Wins         int
	TotalBet     decimal.Decimal
	TotalWin     decimal.Decimal
	RTP          float64 // TotalWin/TotalBet*100
	HitFrequency float64 // Wins/Spins
}

type SpinEventKind string

const (
	SpinEventStarted SpinEventKind = "started"
	SpinEventFrame   SpinEventKind = "frame"
	SpinEventSettled SpinEventKind = "settled"
)

// SpinEvent только для наблюдения, кадры на баланс не влияют
type SpinEvent struct {
	Kind    SpinEventKind
	Grid    Grid
	Bet     decimal.Decimal
	Payout  decimal.Decimal
	Balance decimal.Decimal
	At      time.Time
}
