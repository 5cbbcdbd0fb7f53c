package submit

import "github.com/prometheus/client_golang/prometheus"

var submissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "poultrydx",
		Subsystem: "submit",
		Name:      "submissions_total",
		Help:      "Total number of finished submissions by terminal state",
	},
	[]string{"state"},
)

func init() {
	prometheus.MustRegister(submissionsTotal)
}
