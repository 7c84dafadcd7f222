package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quant_terminal/internal/config"
	"quant_terminal/internal/metrics"
	"quant_terminal/internal/model"
	"quant_terminal/internal/service"

	"github.com/rs/zerolog"
)

const (
	modeScreenshot = "screenshot"
	modeDemo       = "demo"

	defaultMimeType = "image/jpeg"
)

var errNoAPIKey = errors.New("analysis api key is not configured")

type serv struct {
	cfg       config.AnalysisConfig
	generator Generator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time

	mtx   sync.Mutex
	seq   uint64
	panel model.AnalysisPanel
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

// NewAnalysisService - генератор может быть nil, тогда анализ скриншота сразу падает
func NewAnalysisService(cfg config.AnalysisConfig, generator Generator, opts ...Option) service.AnalysisService {
	s := &serv{
		cfg:       cfg,
		generator: generator,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeScreenshot отправляет снимок модели и разбирает JSON ответа.
// Любой сбой - model.ErrAnalysisFailure, повторов нет.
func (s *serv) AnalyzeScreenshot(ctx context.Context, image []byte, mimeType string) (*model.AnalysisResult, error) {
	run := s.begin()

	if mimeType == "" {
		mimeType = defaultMimeType
	}

	res, err := s.screenshot(ctx, image, mimeType)
	s.finish(run, modeScreenshot, res, err)
	return res, err
}

func (s *serv) screenshot(ctx context.Context, image []byte, mimeType string) (*model.AnalysisResult, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: %w", model.ErrAnalysisFailure, errNoAPIKey)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", model.ErrAnalysisFailure)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported mime type %q", model.ErrAnalysisFailure, mimeType)
	}

	if timeout := s.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrAnalysisFailure, err)
	}
	return parseResult(raw)
}

// parseResult разбирает ответ модели
func parseResult(raw string) (*model.AnalysisResult, error) {
	var res model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("%w: parse reply: %w", model.ErrAnalysisFailure, err)
	}
	return &res, nil
}

// AnalyzeDemo возвращает фиксированный разбор после задержки DemoDelay
func (s *serv) AnalyzeDemo(ctx context.Context, snapshot model.SessionState) (*model.AnalysisResult, error) {
	run := s.begin()
	s.logger.Debug().
		Str("balance", snapshot.Balance.String()).
		Str("bet", snapshot.Bet.String()).
		Msg("demo analysis requested")

	var err error
	if delay := s.cfg.DemoDelay(); delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			err = fmt.Errorf("%w: %w", model.ErrAnalysisFailure, ctx.Err())
		}
	}

	var res *model.AnalysisResult
	if err == nil {
		res = demoResult()
	}
	s.finish(run, modeDemo, res, err)
	return res, err
}

func (s *serv) Panel() model.AnalysisPanel {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.panel
}

// begin очищает прошлый результат, помечает панель как занятую
// и возвращает номер запуска
func (s *serv) begin() uint64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.seq++
	s.panel = model.AnalysisPanel{Analyzing: true, UpdatedAt: s.now()}
	return s.seq
}

// finish пишет итог в панель только для последнего запуска
func (s *serv) finish(run uint64, mode string, res *model.AnalysisResult, err error) {
	s.mtx.Lock()
	if run == s.seq {
		s.panel = model.AnalysisPanel{Result: res, UpdatedAt: s.now()}
		if err != nil {
			s.panel.Error = err.Error()
		}
	}
	s.mtx.Unlock()

	s.metrics.AnalysisFinished(mode, err)
	if err != nil {
		s.logger.Error().Err(err).Str("mode", mode).Msg("analysis failed")
		return
	}
	s.logger.Info().Str("mode", mode).Msg("analysis finished")
}
