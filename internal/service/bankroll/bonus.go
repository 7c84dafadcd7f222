package bankroll

import (
	"context"

	"quant_terminal/internal/logger"
	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func (s *serv) BonusProgress(ctx context.Context, bonusID string) (*model.BonusProgress, error) {
	bonus, err := s.repo.GetBonus(ctx, bonusID)
	if err != nil {
		return nil, err
	}
	progress := s.progress(*bonus)
	return &progress, nil
}

// RecordWager засчитывает оборот по бонусу, не выше требуемого.
// Достижение требуемого оборота деактивирует бонус.
func (s *serv) RecordWager(ctx context.Context, bonusID string, amount decimal.Decimal) (*model.BonusProgress, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	var progress model.BonusProgress
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		bonus, err := s.repo.GetBonus(txCtx, bonusID)
		if err != nil {
			return err
		}
		if !bonus.IsActive || s.expired(*bonus) {
			return model.ErrBonusInactive
		}

		bonus.WageringDone = decimal.Min(bonus.WageringDone.Add(amount), bonus.WageringRequired)
		if !bonus.WageringDone.LessThan(bonus.WageringRequired) {
			bonus.IsActive = false
		}
		if err := s.repo.UpdateBonus(txCtx, bonus); err != nil {
			return err
		}
		progress = s.progress(*bonus)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str(logger.BonusKey, bonusID).
		Str("done", progress.Bonus.WageringDone.String()).
		Bool("active", progress.Bonus.IsActive).
		Msg("wager recorded")
	return &progress, nil
}

func (s *serv) progress(b model.Bonus) model.BonusProgress {
	p := model.BonusProgress{
		Bonus:     b,
		Remaining: decimal.Max(b.WageringRequired.Sub(b.WageringDone), decimal.Zero),
		Expired:   s.expired(b),
	}
	if b.WageringRequired.IsPositive() {
		p.Progress = b.WageringDone.Div(b.WageringRequired).Mul(hundred).InexactFloat64()
	}
	return p
}

func (s *serv) expired(b model.Bonus) bool {
	return !b.ExpiryDate.IsZero() && !s.now().Before(b.ExpiryDate)
}
