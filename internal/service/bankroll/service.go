package bankroll

import (
	"context"
	"time"

	"quant_terminal/internal/metrics"
	"quant_terminal/internal/repository"
	"quant_terminal/internal/service"

	"github.com/rs/zerolog"
)

// Transactor - trm.Manager или последовательный Do репозитория в памяти
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type serv struct {
	repo      repository.BankrollRepository
	txManager Transactor
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

type Option func(*serv)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *serv) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *serv) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *serv) { s.now = now }
}

// NewBankrollService Создать сервис дашборда площадок
func NewBankrollService(repo repository.BankrollRepository, txManager Transactor, opts ...Option) service.BankrollService {
	s := &serv{
		repo:      repo,
		txManager: txManager,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
