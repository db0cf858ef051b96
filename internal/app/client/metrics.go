package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeInvalid   = "invalid"
	outcomeTransport = "transport"
	outcomeAPIError  = "api_error"
	outcomeOpaque    = "opaque_error"
	outcomeContract  = "contract"
	outcomeTooLarge  = "too_large"
)

// Metrics считает обращения к вышестоящим сервисам. Нулевой указатель
// допустим: наблюдения тогда просто не пишутся.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics создает коллекторы и регистрирует их в reg, если он задан.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aggyweb",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of calls to upstream services by outcome.",
			},
			[]string{"service", "endpoint", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aggyweb",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Duration of calls to upstream services.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"service", "endpoint"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}

	return m
}

func (m *Metrics) observe(service, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(service, endpoint, outcome).Inc()
	if elapsed > 0 {
		m.duration.WithLabelValues(service, endpoint).Observe(elapsed.Seconds())
	}
}
