package bankroll

import (
	"context"

	"quant_terminal/internal/logger"
	"quant_terminal/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary - все площадки и общий баланс
func (s *serv) Summary(ctx context.Context) (*model.BankrollSummary, error) {
	platforms, err := s.repo.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range platforms {
		total = total.Add(p.Balance)
	}
	return &model.BankrollSummary{Platforms: platforms, Total: total}, nil
}

// RecordTransaction проводит операцию по площадке.
// DEPOSIT/WIN увеличивают баланс, WITHDRAWAL/LOSS уменьшают.
func (s *serv) RecordTransaction(ctx context.Context, tx model.Transaction) (*model.Transaction, error) {
	if !tx.Type.Valid() {
		return nil, model.ErrInvalidType
	}
	if !tx.GameType.Valid() {
		return nil, model.ErrInvalidType
	}
	if !tx.Amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	tx.ID = uuid.NewString()
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}

	delta := tx.Amount
	if !tx.Type.Credit() {
		delta = delta.Neg()
	}

	// Баланс и запись операции меняются в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.AddToBalance(txCtx, tx.PlatformID, delta); err != nil {
			return err
		}
		return s.repo.CreateTransaction(txCtx, &tx)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str(logger.PlatformKey, tx.PlatformID).Str("type", string(tx.Type)).Msg("transaction rejected")
		return nil, err
	}

	s.metrics.TransactionRecorded(string(tx.Type))
	s.logger.Info().
		Str(logger.PlatformKey, tx.PlatformID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Msg("transaction recorded")
	return &tx, nil
}

// Transactions - операции площадки, новые первыми
func (s *serv) Transactions(ctx context.Context, platformID string) ([]model.Transaction, error) {
	if platformID != "" {
		if _, err := s.repo.GetPlatform(ctx, platformID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListTransactions(ctx, platformID)
}
