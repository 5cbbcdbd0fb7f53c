package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK           = "ok"
	outcomeHTTPError    = "http_error"
	outcomeNetworkError = "network_error"
	outcomeTimeout      = "timeout"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poultrydx",
			Subsystem: "webhook",
			Name:      "requests_total",
			Help:      "Total number of webhook calls by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poultrydx",
			Subsystem: "webhook",
			Name:      "request_duration_seconds",
			Help:      "Duration of webhook calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}
