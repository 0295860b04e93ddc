package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "betledger"

// Metrics holds every collector of the service on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	betsCreated  prometheus.Counter
	betConflicts prometheus.Counter
	httpRequests *prometheus.CounterVec

	betsTotal    prometheus.Gauge
	availableSum prometheus.Gauge
	retainedSum  prometheus.Gauge
	balanceSum   prometheus.Gauge
	stakeSum     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		betsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_created_total",
			Help:      "Bets created.",
		}),
		betConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bet_conflicts_total",
			Help:      "Bet writes rejected because the user already had an in-progress bet.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		betsTotal:    gauge("bets_total", "Number of stored bets."),
		availableSum: gauge("bets_available_sum", "Sum of available amounts over all bets."),
		retainedSum:  gauge("bets_retained_sum", "Sum of retained amounts over all bets."),
		balanceSum:   gauge("bets_balance_sum", "Sum of balance amounts over all bets."),
		stakeSum:     gauge("bets_stake_sum", "Sum of stakes over all bets."),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.betsCreated, m.betConflicts, m.httpRequests,
		m.betsTotal, m.availableSum, m.retainedSum, m.balanceSum, m.stakeSum,
	)

	return m
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) BetCreated() { m.betsCreated.Inc() }

func (m *Metrics) BetConflict() { m.betConflicts.Inc() }

func (m *Metrics) HTTPRequest(method, route, code string) {
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}

// Totals is a snapshot of the system-wide bet aggregates.
type Totals struct {
	Count     int
	Available decimal.Decimal
	Retained  decimal.Decimal
	Balance   decimal.Decimal
	Stake     decimal.Decimal
}

func (m *Metrics) SetTotals(t Totals) {
	m.betsTotal.Set(float64(t.Count))
	m.availableSum.Set(t.Available.InexactFloat64())
	m.retainedSum.Set(t.Retained.InexactFloat64())
	m.balanceSum.Set(t.Balance.InexactFloat64())
	m.stakeSum.Set(t.Stake.InexactFloat64())
}
