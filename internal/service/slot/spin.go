package slot

import (
	"context"
	"errors"
	"time"

	"quant_terminal/internal/logger"
	"quant_terminal/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestSpin списывает ставку и запускает спин.
// В канал приходит ровно один результат после задержки расчета.
// Расчет от ctx не зависит.
func (s *serv) RequestSpin(ctx context.Context, bet decimal.Decimal) (<-chan model.SpinOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	// Нулевая ставка - текущая ставка сессии
	if bet.IsZero() {
		bet = s.state.Bet
	}
	if err := s.checkSpin(bet); err != nil {
		s.mtx.Unlock()
		s.metrics.SpinRejected(rejectReason(err))
		s.logger.Debug().Err(err).Str("bet", bet.String()).Msg("spin rejected")
		return nil, err
	}

	// Эскроу: ставка уходит с баланса до результата
	s.state.Spinning = true
	s.state.Balance = s.state.Balance.Sub(bet)
	s.state.LastWin = decimal.Zero
	s.state.SpinStartedAt = s.now()
	balance := s.state.Balance
	grid := s.state.Grid
	s.mtx.Unlock()

	s.metrics.SpinStarted(balance)
	s.bus.Publish(model.SpinEvent{
		Kind:    model.SpinEventStarted,
		Grid:    grid,
		Bet:     bet,
		Payout:  decimal.Zero,
		Balance: balance,
		At:      s.now(),
	})
	s.logger.Debug().Str("bet", bet.String()).Str("balance", balance.String()).Msg("spin started")

	out := make(chan model.SpinOutcome, 1)
	go s.settle(bet, out)
	return out, nil
}

// Spin - блокирующий вариант RequestSpin.
// Отмена ctx прерывает только ожидание, спин все равно рассчитывается.
func (s *serv) Spin(ctx context.Context, bet decimal.Decimal) (*model.SpinOutcome, error) {
	ch, err := s.RequestSpin(ctx, bet)
	if err != nil {
		return nil, err
	}
	select {
	case outcome := <-ch:
		return &outcome, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *serv) checkSpin(bet decimal.Decimal) error {
	if !bet.IsPositive() {
		return model.ErrInvalidBet
	}
	if s.state.Spinning {
		return model.ErrSpinInProgress
	}
	if s.state.Balance.LessThan(bet) {
		return model.ErrInsufficientFunds
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, model.ErrSpinInProgress):
		return "spin_in_progress"
	case errors.Is(err, model.ErrInsufficientFunds):
		return "insufficient_funds"
	}
	return "unknown"
}

// settle ждет задержку, рисуя косметические кадры, и фиксирует итог
func (s *serv) settle(bet decimal.Decimal, out chan<- model.SpinOutcome) {
	defer close(out)
	s.animate(bet)

	s.mtx.Lock()
	grid := GenerateGrid(s.rng, s.symbols)
	payout := EvaluatePayline(grid, bet, s.cfg.ReferenceBet())

	s.state.Balance = s.state.Balance.Add(payout)
	s.state.LastWin = payout
	s.state.Grid = grid
	s.state.Spinning = false
	s.state.SpinStartedAt = time.Time{}

	entry := model.LedgerEntry{
		ID:        uuid.NewString(),
		Bet:       bet,
		Win:       payout,
		Balance:   s.state.Balance,
		Timestamp: s.now(),
	}
	s.ledger.Append(entry)
	s.mtx.Unlock()

	s.metrics.SpinSettled(bet, payout, entry.Balance)
	s.bus.Publish(model.SpinEvent{
		Kind:    model.SpinEventSettled,
		Grid:    grid,
		Bet:     bet,
		Payout:  payout,
		Balance: entry.Balance,
		At:      entry.Timestamp,
	})
	s.logger.Info().
		Str(logger.EntryIDKey, entry.ID).
		Str("bet", bet.String()).
		Str("win", payout.String()).
		Str("balance", entry.Balance.String()).
		Msg("spin settled")

	out <- model.SpinOutcome{
		EntryID: entry.ID,
		Bet:     bet,
		Grid:    grid,
		Payout:  payout,
		Balance: entry.Balance,
	}
}

// animate публикует кадры каждые TickInterval до истечения SettleDelay.
// Кадры берутся из отдельного источника, итоговая сетка от числа тиков не зависит.
func (s *serv) animate(bet decimal.Decimal) {
	delay := s.cfg.SettleDelay()
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	tick := s.cfg.TickInterval()
	if tick <= 0 || tick >= delay {
		<-timer.C
		return
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return
		case at := <-ticker.C:
			s.bus.Publish(model.SpinEvent{
				Kind: model.SpinEventFrame,
				Grid: GenerateGrid(s.frameRng, s.symbols),
				Bet:  bet,
				At:   at,
			})
		}
	}
}

// GenerateGrid заполняет 9 ячеек равновероятно, с возвращением
func GenerateGrid(rng RandomSource, symbols []model.Symbol) model.Grid {
	var grid model.Grid
	for r := 0; r < model.Reels; r++ {
		for c := 0; c < model.Rows; c++ {
			grid[r][c] = symbols[rng.IntN(len(symbols))]
		}
	}
	return grid
}

// EvaluatePayline - выплата по средней строке: value * bet / referenceBet,
// если все три символа совпадают, иначе 0
func EvaluatePayline(grid model.Grid, bet, referenceBet decimal.Decimal) decimal.Decimal {
	line := grid.Payline()
	for r := 1; r < model.Reels; r++ {
		if line[r].ID != line[0].ID {
			return decimal.Zero
		}
	}
	return decimal.NewFromInt(line[0].Value).Mul(bet).Div(referenceBet)
}
