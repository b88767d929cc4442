package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"toolhub/internal/domain"
)

type PrometheusMetrics struct {
	resolves        *prometheus.CounterVec
	searchResults   prometheus.Histogram
	payloadDuration *prometheus.HistogramVec
	generations     *prometheus.HistogramVec
	usageEvents     *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		resolves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_resolves_total",
				Help: "Total tool resolutions by source and status",
			},
			[]string{"source", "status"},
		),
		searchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolhub_search_results",
				Help:    "Result counts of catalog searches",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		payloadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolhub_payload_load_seconds",
				Help:    "Duration of registry payload reads in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"status"},
		),
		generations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolhub_generation_seconds",
				Help:    "Duration of generation calls in seconds",
				Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		usageEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_usage_events_total",
				Help: "Total recorded usage events by kind",
			},
			[]string{"kind"},
		),
	}
}

func (p *PrometheusMetrics) ObserveResolve(source domain.ToolType, err error) {
	label := string(source)
	if label == "" {
		label = "none"
	}
	p.resolves.WithLabelValues(label, statusLabel(err)).Inc()
}

func (p *PrometheusMetrics) ObserveSearch(results int) {
	p.searchResults.Observe(float64(results))
}

func (p *PrometheusMetrics) ObservePayloadLoad(duration time.Duration, err error) {
	p.payloadDuration.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveGeneration(duration time.Duration, err error) {
	p.generations.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveUsageEvent(kind string) {
	p.usageEvents.WithLabelValues(kind).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
