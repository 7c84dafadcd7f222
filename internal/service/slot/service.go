package slot

import (
	"context"
	"sync"
	"time"

	"quant_terminal/internal/config"
	"quant_terminal/internal/events"
	"quant_terminal/internal/metrics"
	"quant_terminal/internal/model"
	"quant_terminal/internal/repository"
	"quant_terminal/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AnalysisHook получает снимок сессии по запросу анализа. Результат движку не нужен.
type AnalysisHook func(ctx context.Context, snapshot model.SessionState)

type serv struct {
	mtx   sync.Mutex
	state model.SessionState

	cfg     config.SlotConfig
	symbols []model.Symbol
	ledger  repository.LedgerRepository

	rng      RandomSource
	frameRng RandomSource
	bus      *events.Bus
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	hook     AnalysisHook
	now      func() time.Time
}

type Option func(*serv)

// WithRandomSource задает источник для итоговой сетки
func WithRandomSource(rng RandomSource) Option {
	return func(s *serv) { s.rng = rng }
}

// WithFrameSource задает источник для косметических кадров
func WithFrameSource(rng RandomSource) Option {
	return func(s *serv) { s.frameRng = rng }
}

func WithEvents(bus *events.Bus) Option {
	return func(s *serv) { s.bus = bus }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *serv) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *serv) { s.logger = l }
}

func WithAnalysisHook(h AnalysisHook) Option {
	return func(s *serv) { s.hook = h }
}

func WithClock(now func() time.Time) Option {
	return func(s *serv) { s.now = now }
}

// WithBalance переопределяет стартовый баланс сессии
func WithBalance(balance decimal.Decimal) Option {
	return func(s *serv) { s.state.Balance = balance }
}

// NewSlotService Создать демо-слот 3x3
func NewSlotService(cfg config.SlotConfig, ledger repository.LedgerRepository, opts ...Option) service.SlotService {
	s := &serv{
		cfg:     cfg,
		symbols: cfg.Symbols(),
		ledger:  ledger,
		logger:  zerolog.Nop(),
		now:     time.Now,
		state: model.SessionState{
			Balance: cfg.InitialBalance(),
			Bet:     cfg.InitialBet(),
			LastWin: decimal.Zero,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRandomSource()
	}
	if s.frameRng == nil {
		s.frameRng = NewRandomSource()
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	s.state.Grid = initialGrid(s.symbols)
	return s
}

// initialGrid - сетка до первого спина
func initialGrid(symbols []model.Symbol) model.Grid {
	layout := [model.Reels][model.Rows]int{{0, 1, 2}, {2, 3, 0}, {1, 4, 5}}
	var grid model.Grid
	for r := 0; r < model.Reels; r++ {
		for c := 0; c < model.Rows; c++ {
			grid[r][c] = symbols[layout[r][c]%len(symbols)]
		}
	}
	return grid
}

func (s *serv) State() model.SessionState {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.state
}

func (s *serv) Symbols() []model.Symbol {
	out := make([]model.Symbol, len(s.symbols))
	copy(out, s.symbols)
	return out
}

func (s *serv) Ledger() []model.LedgerEntry {
	return s.ledger.List()
}

func (s *serv) ClearLedger() {
	s.ledger.Clear()
}

func (s *serv) LedgerStats() model.LedgerStats {
	return s.ledger.Stats()
}

func (s *serv) Subscribe(buffer int) (<-chan model.SpinEvent, func()) {
	return s.bus.Subscribe(buffer)
}

// RequestAnalysis передает снимок сессии хуку анализа в отдельной горутине
func (s *serv) RequestAnalysis(ctx context.Context) {
	if s.hook == nil {
		return
	}
	snapshot := s.State()
	go s.hook(context.WithoutCancel(ctx), snapshot)
}
