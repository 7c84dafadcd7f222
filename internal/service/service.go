package service

import (
	"context"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

// SlotService - демо-автомат 3x3 с одной линией выплат
type SlotService interface {
	RequestSpin(ctx context.Context, bet decimal.Decimal) (<-chan model.SpinOutcome, error)
	Spin(ctx context.Context, bet decimal.Decimal) (*model.SpinOutcome, error)
	AdjustBet(steps int) decimal.Decimal
	State() model.SessionState
	Reset() error
	RequestAnalysis(ctx context.Context)

	Ledger() []model.LedgerEntry
	ClearLedger()
	LedgerStats() model.LedgerStats
	Symbols() []model.Symbol

	Subscribe(buffer int) (<-chan model.SpinEvent, func())
}

type AnalysisService interface {
	AnalyzeScreenshot(ctx context.Context, image []byte, mimeType string) (*model.AnalysisResult, error)
	AnalyzeDemo(ctx context.Context, snapshot model.SessionState) (*model.AnalysisResult, error)
	Panel() model.AnalysisPanel
}

type BankrollService interface {
	Summary(ctx context.Context) (*model.BankrollSummary, error)
	RecordTransaction(ctx context.Context, tx model.Transaction) (*model.Transaction, error)
	Transactions(ctx context.Context, platformID string) ([]model.Transaction, error)
	BonusProgress(ctx context.Context, bonusID string) (*model.BonusProgress, error)
	RecordWager(ctx context.Context, bonusID string, amount decimal.Decimal) (*model.BonusProgress, error)
}
