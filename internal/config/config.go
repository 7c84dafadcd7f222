package config

import (
	"time"

	"quant_terminal/internal/model"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type SlotConfig interface {
	InitialBalance() decimal.Decimal
	InitialBet() decimal.Decimal
	BetStep() decimal.Decimal
	BetFloor() decimal.Decimal
	ReferenceBet() decimal.Decimal
	SettleDelay() time.Duration
	TickInterval() time.Duration
	LedgerCapacity() int
	Symbols() []model.Symbol
}

type BankrollConfig interface {
	Platforms() []model.Platform
	Bonuses() []model.Bonus
}

type AnalysisConfig interface {
	APIKey() string
	Model() string
	Timeout() time.Duration
	DemoDelay() time.Duration
	RequestsPerMinute() float64
	Burst() int
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type LogConfig interface {
	Level() string
	File() string
	Colorize() bool
}
