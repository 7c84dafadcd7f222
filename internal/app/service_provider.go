package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	analysisAPI "quant_terminal/internal/api/analysis"
	bankrollAPI "quant_terminal/internal/api/bankroll"
	slotAPI "quant_terminal/internal/api/slot"
	"quant_terminal/internal/config"
	"quant_terminal/internal/config/env"
	"quant_terminal/internal/events"
	"quant_terminal/internal/logger"
	"quant_terminal/internal/metrics"
	"quant_terminal/internal/middleware"
	"quant_terminal/internal/model"
	"quant_terminal/internal/repository"
	"quant_terminal/internal/repository/bankroll_repo"
	"quant_terminal/internal/repository/ledger_repo"
	"quant_terminal/internal/service"
	"quant_terminal/internal/service/analysis"
	"quant_terminal/internal/service/bankroll"
	"quant_terminal/internal/service/slot"
	"quant_terminal/pkg/resp"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type ServiceProvider struct {
	// Logging and metrics
	logCfg   config.LogConfig
	logger   *zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Database, optional
	pgConfig     config.PGConfig
	pgConfigRead bool
	dbClient     *pgxpool.Pool

	// Bankroll bits
	bankrollCfg  config.BankrollConfig
	bankrollRepo repository.BankrollRepository
	txManager    bankroll.Transactor
	bankrollServ service.BankrollService
	bankrollHand *bankrollAPI.Handler

	// Slot bits
	slotCfg    config.SlotConfig
	ledgerRepo repository.LedgerRepository
	eventBus   *events.Bus
	slotServ   service.SlotService
	slotHand   *slotAPI.Handler

	// Analysis bits
	analysisCfg  config.AnalysisConfig
	analysisServ service.AnalysisService
	analysisHand *analysisAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		sp.logCfg = env.NewLogConfig()
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() zerolog.Logger {
	if sp.logger == nil {
		l := logger.New(sp.LogCfg())
		sp.logger = &l
	}
	return *sp.logger
}

func (sp *ServiceProvider) Registry() *prometheus.Registry {
	if sp.registry == nil {
		sp.registry = prometheus.NewRegistry()
	}
	return sp.registry
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New(sp.Registry())
	}
	return sp.metrics
}

// PgConfig - nil, если PG_DSN не задан
func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if !sp.pgConfigRead {
		cfg, err := env.NewPGConfig()
		if err != nil && !errors.Is(err, env.ErrPGNotConfigured) {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
		sp.pgConfigRead = true
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) BankrollCfg() config.BankrollConfig {
	if sp.bankrollCfg == nil {
		cfg, err := env.NewBankrollConfigFromYAML(env.ConfigPath(), time.Now())
		if err != nil {
			panic("failed to get bankroll config: " + err.Error())
		}
		sp.bankrollCfg = cfg
	}
	return sp.bankrollCfg
}

// BankrollRepository - Postgres при заданном PG_DSN, иначе память.
// Транзакции: trm поверх pgx или последовательный Do репозитория в памяти.
func (sp *ServiceProvider) BankrollRepository(ctx context.Context) repository.BankrollRepository {
	if sp.bankrollRepo == nil {
		cfg := sp.BankrollCfg()
		if sp.PgConfig() == nil {
			mem := bankroll_repo.NewMemoryRepository(cfg.Platforms(), cfg.Bonuses())
			sp.bankrollRepo = mem
			sp.txManager = mem
			return sp.bankrollRepo
		}

		dbc := sp.DBClient(ctx)
		if err := bankroll_repo.Seed(ctx, dbc, cfg.Platforms(), cfg.Bonuses()); err != nil {
			panic("failed to seed bankroll: " + err.Error())
		}
		m, err := manager.New(trmpgx.NewDefaultFactory(dbc))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.bankrollRepo = bankroll_repo.NewPGRepository(dbc, trmpgx.DefaultCtxGetter)
		sp.txManager = m
	}
	return sp.bankrollRepo
}

func (sp *ServiceProvider) TXManager(ctx context.Context) bankroll.Transactor {
	if sp.txManager == nil {
		sp.BankrollRepository(ctx)
	}
	return sp.txManager
}

func (sp *ServiceProvider) BankrollService(ctx context.Context) service.BankrollService {
	if sp.bankrollServ == nil {
		sp.bankrollServ = bankroll.NewBankrollService(
			sp.BankrollRepository(ctx),
			sp.TXManager(ctx),
			bankroll.WithMetrics(sp.Metrics()),
			bankroll.WithLogger(logger.Component(sp.Logger(), "bankroll")),
		)
	}
	return sp.bankrollServ
}

func (sp *ServiceProvider) BankrollHandler(ctx context.Context) *bankrollAPI.Handler {
	if sp.bankrollHand == nil {
		sp.bankrollHand = bankrollAPI.NewHandler(bankrollAPI.HandlerDeps{
			Serv: sp.BankrollService(ctx),
		})
	}
	return sp.bankrollHand
}

func (sp *ServiceProvider) SlotCfg() config.SlotConfig {
	if sp.slotCfg == nil {
		cfg, err := env.NewSlotConfigFromYAML(env.ConfigPath())
		if err != nil {
			panic("failed to get slot config: " + err.Error())
		}
		sp.slotCfg = cfg
	}
	return sp.slotCfg
}

func (sp *ServiceProvider) LedgerRepository() repository.LedgerRepository {
	if sp.ledgerRepo == nil {
		sp.ledgerRepo = ledger_repo.NewLedgerRepository(sp.SlotCfg().LedgerCapacity())
	}
	return sp.ledgerRepo
}

func (sp *ServiceProvider) EventBus() *events.Bus {
	if sp.eventBus == nil {
		sp.eventBus = events.NewBus()
	}
	return sp.eventBus
}

func (sp *ServiceProvider) SlotService(ctx context.Context) service.SlotService {
	if sp.slotServ == nil {
		// Анализ демо-сессии идет мимо движка
		hook := func(hookCtx context.Context, snapshot model.SessionState) {
			_, _ = sp.AnalysisService(ctx).AnalyzeDemo(hookCtx, snapshot)
		}
		sp.slotServ = slot.NewSlotService(
			sp.SlotCfg(),
			sp.LedgerRepository(),
			slot.WithEvents(sp.EventBus()),
			slot.WithMetrics(sp.Metrics()),
			slot.WithLogger(logger.Component(sp.Logger(), "slot")),
			slot.WithAnalysisHook(hook),
		)
	}
	return sp.slotServ
}

func (sp *ServiceProvider) SlotHandler(ctx context.Context) *slotAPI.Handler {
	if sp.slotHand == nil {
		sp.slotHand = slotAPI.NewHandler(slotAPI.HandlerDeps{
			Serv:   sp.SlotService(ctx),
			Logger: logger.Component(sp.Logger(), "slot_api"),
		})
	}
	return sp.slotHand
}

func (sp *ServiceProvider) AnalysisCfg() config.AnalysisConfig {
	if sp.analysisCfg == nil {
		cfg, err := env.NewAnalysisConfig()
		if err != nil {
			panic("failed to get analysis config: " + err.Error())
		}
		sp.analysisCfg = cfg
	}
	return sp.analysisCfg
}

func (sp *ServiceProvider) AnalysisService(ctx context.Context) service.AnalysisService {
	if sp.analysisServ == nil {
		cfg := sp.AnalysisCfg()
		log := logger.Component(sp.Logger(), "analysis")

		var generator analysis.Generator
		if cfg.APIKey() != "" {
			g, err := analysis.NewGeminiGenerator(ctx, cfg.APIKey(), cfg.Model())
			if err != nil {
				panic("failed to create analysis client: " + err.Error())
			}
			generator = g
		} else {
			log.Warn().Msg("GEMINI_API_KEY is not set, screenshot analysis disabled")
		}

		sp.analysisServ = analysis.NewAnalysisService(cfg, generator,
			analysis.WithMetrics(sp.Metrics()),
			analysis.WithLogger(log),
		)
	}
	return sp.analysisServ
}

func (sp *ServiceProvider) AnalysisHandler(ctx context.Context) *analysisAPI.Handler {
	if sp.analysisHand == nil {
		sp.analysisHand = analysisAPI.NewHandler(analysisAPI.HandlerDeps{
			Serv: sp.AnalysisService(ctx),
		})
	}
	return sp.analysisHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chiMiddleware.RequestID)
		r.Use(chiMiddleware.Recoverer)
		r.Use(middleware.RequestLogger(logger.Component(sp.Logger(), "http")))

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Method(http.MethodGet, "/metrics", metrics.Handler(sp.Registry()))

		// Slot endpoints
		slotHandler := sp.SlotHandler(ctx)
		r.Route("/slot", func(rr chi.Router) {
			rr.Get("/state", slotHandler.State)
			rr.Get("/symbols", slotHandler.Symbols)
			rr.Post("/spin", slotHandler.Spin)
			rr.Post("/bet", slotHandler.Bet)
			rr.Post("/reset", slotHandler.Reset)
			rr.Get("/ledger", slotHandler.Ledger)
			rr.Delete("/ledger", slotHandler.ClearLedger)
			rr.Get("/ledger/stats", slotHandler.Stats)
			rr.Post("/analyze", slotHandler.Analyze)
			rr.Get("/events", slotHandler.Events)
		})

		// Analysis endpoints
		analysisCfg := sp.AnalysisCfg()
		limiter := middleware.NewRateLimiter(middleware.RateLimit{
			RequestsPerMinute: analysisCfg.RequestsPerMinute(),
			Burst:             analysisCfg.Burst(),
		}, logger.Component(sp.Logger(), "ratelimit"))
		analysisHandler := sp.AnalysisHandler(ctx)
		r.Route("/analysis", func(rr chi.Router) {
			rr.Use(limiter.Middleware)
			rr.Get("/", analysisHandler.Panel)
			rr.Post("/screenshot", analysisHandler.Screenshot)
		})

		// Bankroll endpoints
		bankrollHandler := sp.BankrollHandler(ctx)
		r.Route("/bankroll", func(rr chi.Router) {
			rr.Get("/summary", bankrollHandler.Summary)
			rr.Get("/transactions", bankrollHandler.Transactions)
			rr.Post("/transactions", bankrollHandler.CreateTransaction)
			rr.Get("/bonus/{id}", bankrollHandler.Bonus)
			rr.Post("/bonus/{id}/wager", bankrollHandler.Wager)
		})

		sp.router = r
	}

	return sp.router
}

// Close освобождает пул соединений
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
}
