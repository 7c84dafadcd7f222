package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "quant_terminal"

// Metrics - счетчики терминала. Методы безопасно вызывать на nil.
type Metrics struct {
	spinsStarted   prometheus.Counter
	spinsSettled   prometheus.Counter
	spinsRejected  *prometheus.CounterVec
	winningSpins   prometheus.Counter
	wageredTotal   prometheus.Counter
	payoutTotal    prometheus.Counter
	sessionBalance prometheus.Gauge
	analyses       *prometheus.CounterVec
	transactions   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		spinsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_started_total",
			Help:      "Total number of accepted spin requests",
		}),
		spinsSettled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_settled_total",
			Help:      "Total number of settled spins",
		}),
		spinsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_rejected_total",
			Help:      "Spin requests rejected by the engine",
		}, []string{"reason"}),
		winningSpins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "winning_spins_total",
			Help:      "Settled spins with a non-zero payout",
		}),
		wageredTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wagered_total",
			Help:      "Sum of bets of settled spins",
		}),
		payoutTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_total",
			Help:      "Sum of payouts of settled spins",
		}),
		sessionBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_balance",
			Help:      "Current demo session balance",
		}),
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Finished analyses by mode and outcome",
		}, []string{"mode", "outcome"}),
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bankroll_transactions_total",
			Help:      "Recorded bankroll transactions by type",
		}, []string{"type"}),
	}
}

// Handler отдает метрики реестра для /metrics
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) SpinStarted(balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.spinsStarted.Inc()
	m.sessionBalance.Set(balance.InexactFloat64())
}

func (m *Metrics) SpinRejected(reason string) {
	if m == nil {
		return
	}
	m.spinsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SpinSettled(bet, payout, balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.spinsSettled.Inc()
	m.wageredTotal.Add(bet.InexactFloat64())
	if payout.IsPositive() {
		m.winningSpins.Inc()
		m.payoutTotal.Add(payout.InexactFloat64())
	}
	m.sessionBalance.Set(balance.InexactFloat64())
}

func (m *Metrics) SessionReset(balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.sessionBalance.Set(balance.InexactFloat64())
}

func (m *Metrics) AnalysisFinished(mode string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.analyses.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) TransactionRecorded(txType string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(txType).Inc()
}
