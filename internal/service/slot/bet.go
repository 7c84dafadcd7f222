package slot

import (
	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

// AdjustBet сдвигает ставку на steps шагов, не ниже минимальной.
// Допустимо во время спина, новая ставка действует со следующего.
func (s *serv) AdjustBet(steps int) decimal.Decimal {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := s.state.Bet.Add(s.cfg.BetStep().Mul(decimal.NewFromInt(int64(steps))))
	if next.LessThan(s.cfg.BetFloor()) {
		next = s.cfg.BetFloor()
	}
	s.state.Bet = next
	return next
}

// Reset возвращает сессию к стартовому балансу и ставке и очищает журнал
func (s *serv) Reset() error {
	s.mtx.Lock()
	if s.state.Spinning {
		s.mtx.Unlock()
		return model.ErrSpinInProgress
	}
	s.state = model.SessionState{
		Balance: s.cfg.InitialBalance(),
		Bet:     s.cfg.InitialBet(),
		LastWin: decimal.Zero,
		Grid:    initialGrid(s.symbols),
	}
	s.ledger.Clear()
	balance := s.state.Balance
	s.mtx.Unlock()

	s.metrics.SessionReset(balance)
	s.logger.Info().Str("balance", balance.String()).Msg("session reset")
	return nil
}
