package infra

import (
	"math/big"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the ledger's prometheus collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	events        *prometheus.CounterVec
	eventWei      *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	heldEther     prometheus.Gauge
	funders       prometheus.Gauge
	priceAnswer   prometheus.Gauge
	requestTiming *prometheus.HistogramVec
}

// NewMetrics registers the ledger collectors together with the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fundme",
			Name:      "ledger_events_total",
			Help:      "Committed ledger events by kind.",
		}, []string{"kind"}),
		eventWei: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fundme",
			Name:      "ledger_event_ether_total",
			Help:      "Ether moved by committed ledger events, by kind.",
		}, []string{"kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fundme",
			Name:      "ledger_rejections_total",
			Help:      "Rejected ledger calls by reason.",
		}, []string{"reason"}),
		heldEther: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fundme",
			Name:      "held_ether",
			Help:      "Value currently held by the ledger, in ether.",
		}),
		funders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fundme",
			Name:      "funders",
			Help:      "Distinct funders since the last withdrawal.",
		}),
		priceAnswer: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fundme",
			Name:      "eth_usd_price",
			Help:      "Last ETH/USD price read from the feed.",
		}),
		requestTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fundme",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.events, m.eventWei, m.rejections, m.heldEther, m.funders, m.priceAnswer, m.requestTiming,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveEvent counts a committed ledger event of the given kind and size.
func (m *Metrics) ObserveEvent(kind string, wei *big.Int) {
	m.events.WithLabelValues(kind).Inc()
	m.eventWei.WithLabelValues(kind).Add(weiToEther(wei))
}

// ObserveRejection counts a rejected call.
func (m *Metrics) ObserveRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// SetLedger records the current held value and funder count.
func (m *Metrics) SetLedger(held *big.Int, funders int) {
	m.heldEther.Set(weiToEther(held))
	m.funders.Set(float64(funders))
}

// SetPrice records the last price read, already scaled to a float.
func (m *Metrics) SetPrice(v float64) {
	m.priceAnswer.Set(v)
}

// ObserveRequest records an HTTP request latency.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.requestTiming.WithLabelValues(method, route, status).Observe(seconds)
}

func weiToEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(wei, big.NewInt(1e18)).Float64()
	return f
}
