package env

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"quant_terminal/internal/config"
	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnvName = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

// ConfigPath - путь к config.yaml из CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv(configPathEnvName); len(p) != 0 {
		return p
	}
	return defaultConfigPath
}

// rawFile - корневая структура config.yaml
type rawFile struct {
	Slot     rawSlot     `yaml:"slot"`
	Bankroll rawBankroll `yaml:"bankroll"`
}

type rawSlot struct {
	InitialBalance *float64    `yaml:"initial_balance"`
	InitialBet     *float64    `yaml:"initial_bet"`
	BetStep        *float64    `yaml:"bet_step"`
	BetFloor       *float64    `yaml:"bet_floor"`
	ReferenceBet   *float64    `yaml:"reference_bet"`
	SettleDelayMs  *int        `yaml:"settle_delay_ms"`
	TickIntervalMs *int        `yaml:"tick_interval_ms"`
	LedgerCapacity *int        `yaml:"ledger_capacity"`
	Symbols        []rawSymbol `yaml:"symbols"`
}

type rawSymbol struct {
	ID    string `yaml:"id"`
	Value int64  `yaml:"value"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

type rawBankroll struct {
	Platforms []rawPlatform `yaml:"platforms"`
	Bonuses   []rawBonus    `yaml:"bonuses"`
}

type rawPlatform struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Balance  float64 `yaml:"balance"`
	Currency string  `yaml:"currency"`
}

type rawBonus struct {
	ID               string  `yaml:"id"`
	PlatformID       string  `yaml:"platform_id"`
	Amount           float64 `yaml:"amount"`
	Multiplier       int     `yaml:"multiplier"`
	WageringRequired float64 `yaml:"wagering_required"`
	WageringDone     float64 `yaml:"wagering_done"`
	ExpiresIn        string  `yaml:"expires_in"`
}

// Значения по умолчанию повторяют демо-автомат
var defaultSymbols = []model.Symbol{
	{ID: "diamond", Value: 50, Icon: "fa-gem", Color: "text-cyan-400"},
	{ID: "gold", Value: 20, Icon: "fa-coins", Color: "text-amber-400"},
	{ID: "cherry", Value: 10, Icon: "fa-apple-whole", Color: "text-rose-500"},
	{ID: "seven", Value: 100, Icon: "fa-7", Color: "text-red-600"},
	{ID: "bell", Value: 30, Icon: "fa-bell", Color: "text-yellow-500"},
	{ID: "star", Value: 40, Icon: "fa-star", Color: "text-purple-400"},
}

const (
	defaultInitialBalance = 5000
	defaultInitialBet     = 10
	defaultBetStep        = 10
	defaultBetFloor       = 10
	defaultReferenceBet   = 10
	defaultSettleDelayMs  = 1500
	defaultTickIntervalMs = 100
	defaultLedgerCapacity = 50
)

type slotConfig struct {
	initialBalance decimal.Decimal
	initialBet     decimal.Decimal
	betStep        decimal.Decimal
	betFloor       decimal.Decimal
	referenceBet   decimal.Decimal
	settleDelay    time.Duration
	tickInterval   time.Duration
	ledgerCapacity int
	symbols        []model.Symbol
}

// DefaultSlotConfig - конфигурация слота без файла
func DefaultSlotConfig() config.SlotConfig {
	cfg, _ := buildSlotConfig(rawSlot{})
	return cfg
}

// NewSlotConfigFromYAML - читает секцию slot из файла.
// Отсутствующий файл или поле заменяются значениями по умолчанию.
func NewSlotConfigFromYAML(path string) (config.SlotConfig, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := buildSlotConfig(raw.Slot)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSlotConfig(raw rawSlot) (*slotConfig, error) {
	cfg := &slotConfig{
		initialBalance: decimal.NewFromFloat(floatOr(raw.InitialBalance, defaultInitialBalance)),
		initialBet:     decimal.NewFromFloat(floatOr(raw.InitialBet, defaultInitialBet)),
		betStep:        decimal.NewFromFloat(floatOr(raw.BetStep, defaultBetStep)),
		betFloor:       decimal.NewFromFloat(floatOr(raw.BetFloor, defaultBetFloor)),
		referenceBet:   decimal.NewFromFloat(floatOr(raw.ReferenceBet, defaultReferenceBet)),
		settleDelay:    time.Duration(intOr(raw.SettleDelayMs, defaultSettleDelayMs)) * time.Millisecond,
		tickInterval:   time.Duration(intOr(raw.TickIntervalMs, defaultTickIntervalMs)) * time.Millisecond,
		ledgerCapacity: intOr(raw.LedgerCapacity, defaultLedgerCapacity),
	}

	if len(raw.Symbols) == 0 {
		cfg.symbols = append([]model.Symbol(nil), defaultSymbols...)
	} else {
		for _, s := range raw.Symbols {
			cfg.symbols = append(cfg.symbols, model.Symbol{ID: s.ID, Value: s.Value, Icon: s.Icon, Color: s.Color})
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *slotConfig) validate() error {
	var errs []string

	if c.initialBalance.IsNegative() {
		errs = append(errs, "slot.initial_balance must be >= 0")
	}
	if !c.betStep.IsPositive() {
		errs = append(errs, "slot.bet_step must be > 0")
	}
	if !c.betFloor.IsPositive() {
		errs = append(errs, "slot.bet_floor must be > 0")
	}
	if c.initialBet.LessThan(c.betFloor) {
		errs = append(errs, "slot.initial_bet must be >= bet_floor")
	} else if c.betStep.IsPositive() && !c.initialBet.Sub(c.betFloor).Mod(c.betStep).IsZero() {
		errs = append(errs, "slot.initial_bet must be bet_floor plus a multiple of bet_step")
	}
	if !c.referenceBet.IsPositive() {
		errs = append(errs, "slot.reference_bet must be > 0")
	}
	if c.settleDelay < 0 {
		errs = append(errs, "slot.settle_delay_ms must be >= 0")
	}
	if c.tickInterval < 0 {
		errs = append(errs, "slot.tick_interval_ms must be >= 0")
	}
	if c.ledgerCapacity <= 0 {
		errs = append(errs, "slot.ledger_capacity must be >= 1")
	}
	if len(c.symbols) == 0 {
		errs = append(errs, "slot.symbols must contain at least one symbol")
	}
	seen := make(map[string]bool, len(c.symbols))
	for i, s := range c.symbols {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("slot.symbols[%d].id is required", i))
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("slot.symbols[%d].id %q is duplicated", i, s.ID))
		}
		seen[s.ID] = true
		if s.Value <= 0 {
			errs = append(errs, fmt.Sprintf("slot.symbols[%d].value must be > 0", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *slotConfig) InitialBalance() decimal.Decimal { return c.initialBalance }
func (c *slotConfig) InitialBet() decimal.Decimal     { return c.initialBet }
func (c *slotConfig) BetStep() decimal.Decimal        { return c.betStep }
func (c *slotConfig) BetFloor() decimal.Decimal       { return c.betFloor }
func (c *slotConfig) ReferenceBet() decimal.Decimal   { return c.referenceBet }
func (c *slotConfig) SettleDelay() time.Duration      { return c.settleDelay }
func (c *slotConfig) TickInterval() time.Duration     { return c.tickInterval }
func (c *slotConfig) LedgerCapacity() int             { return c.ledgerCapacity }

// Symbols returns a copy of the catalog.
func (c *slotConfig) Symbols() []model.Symbol {
	return append([]model.Symbol(nil), c.symbols...)
}

type bankrollConfig struct {
	platforms []model.Platform
	bonuses   []model.Bonus
}

// NewBankrollConfigFromYAML - читает секцию bankroll (стартовые данные дашборда)
func NewBankrollConfigFromYAML(path string, now time.Time) (config.BankrollConfig, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &bankrollConfig{}
	for _, p := range raw.Bankroll.Platforms {
		if p.ID == "" {
			return nil, errors.New("bankroll.platforms: id is required")
		}
		cfg.platforms = append(cfg.platforms, model.Platform{
			ID:       p.ID,
			Name:     p.Name,
			Balance:  decimal.NewFromFloat(p.Balance),
			Currency: p.Currency,
		})
	}

	for _, b := range raw.Bankroll.Bonuses {
		// пустой expires_in - бонус без срока
		var expiry time.Time
		if b.ExpiresIn != "" {
			d, err := time.ParseDuration(b.ExpiresIn)
			if err != nil {
				return nil, fmt.Errorf("bankroll.bonuses %s: invalid expires_in: %w", b.ID, err)
			}
			expiry = now.Add(d)
		}
		cfg.bonuses = append(cfg.bonuses, model.Bonus{
			ID:               b.ID,
			PlatformID:       b.PlatformID,
			Amount:           decimal.NewFromFloat(b.Amount),
			Multiplier:       b.Multiplier,
			WageringRequired: decimal.NewFromFloat(b.WageringRequired),
			WageringDone:     decimal.NewFromFloat(b.WageringDone),
			ExpiryDate:       expiry,
			IsActive:         true,
		})
	}

	return cfg, nil
}

func (c *bankrollConfig) Platforms() []model.Platform {
	return append([]model.Platform(nil), c.platforms...)
}

func (c *bankrollConfig) Bonuses() []model.Bonus {
	return append([]model.Bonus(nil), c.bonuses...)
}

// readFile загружает YAML. Отсутствующий файл не является ошибкой.
func readFile(path string) (rawFile, error) {
	var raw rawFile
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rawFile{}, nil
		}
		return rawFile{}, err
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return rawFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
