package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailure = "failure"
)

// Collector owns a private registry so tests can create as many as they need.
type Collector struct {
	registry          *prometheus.Registry
	transfers         *prometheus.CounterVec
	transferDuration  *prometheus.HistogramVec
	rateRefreshes     *prometheus.CounterVec
	rateSnapshotTime  prometheus.Gauge
	outboxPublished   *prometheus.CounterVec
	commandsProcessed *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Transfer attempts by kind and outcome",
		}, []string{"kind", "outcome", "code"}),
		transferDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transfer_duration_seconds",
			Help:    "Time taken to execute a transfer, including its transaction",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		rateRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_refresh_total",
			Help: "Exchange rate refresh attempts by result",
		}, []string{"result"}),
		rateSnapshotTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rate_snapshot_timestamp_seconds",
			Help: "Unix time the current exchange rate snapshot was fetched at",
		}),
		outboxPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_published_total",
			Help: "Outbox messages handed to Kafka by result",
		}, []string{"result"}),
		commandsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_commands_total",
			Help: "Asynchronous transfer commands by outcome",
		}, []string{"outcome"}),
	}
}

func (c *Collector) RecordTransfer(kind, outcome, code string, duration time.Duration) {
	c.transfers.WithLabelValues(kind, outcome, code).Inc()
	c.transferDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (c *Collector) RecordRateRefresh(ok bool, fetchedAt time.Time) {
	if !ok {
		c.rateRefreshes.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	c.rateRefreshes.WithLabelValues(OutcomeSuccess).Inc()
	c.rateSnapshotTime.Set(float64(fetchedAt.Unix()))
}

func (c *Collector) RecordOutboxPublish(ok bool) {
	if ok {
		c.outboxPublished.WithLabelValues(OutcomeSuccess).Inc()
		return
	}
	c.outboxPublished.WithLabelValues(OutcomeFailure).Inc()
}

func (c *Collector) RecordCommand(outcome string) {
	c.commandsProcessed.WithLabelValues(outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
