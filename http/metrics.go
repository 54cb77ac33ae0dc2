package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server's collectors. Each server registers them on its
// own registry so that several servers can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	articlesTotal   *prometheus.CounterVec
	articleLength   prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "briefly",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "briefly",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		articlesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "briefly",
				Name:      "articles_total",
				Help:      "Articles processed by operation and outcome code.",
			},
			[]string{"operation", "outcome"},
		),
		articleLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "briefly",
				Name:      "article_length_characters",
				Help:      "Length of extracted article text.",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
			},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.articlesTotal,
		m.articleLength,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// observeArticle records the outcome of one pipeline operation.
func (m *metrics) observeArticle(operation string, length int, outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	m.articlesTotal.WithLabelValues(operation, outcome).Inc()
	if length > 0 {
		m.articleLength.Observe(float64(length))
	}
}
