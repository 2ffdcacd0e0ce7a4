package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(
		grantAttempts,
		grantDuration,
	)
}

var (
	// Count of reconciliation attempts grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): verify_failed|metadata_missing|payment_not_found|
	//   user_mismatch|amount_mismatch|currency_mismatch|update_failed|unknown
	grantAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grant_pro_attempts_total",
			Help: "Count of pro-grant reconciliation attempts by result and reason.",
		},
		[]string{"result", "reason"},
	)

	grantDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grant_pro_duration_seconds",
			Help:    "Duration of the pro-grant reconciliation in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncGrant(result, reason string) {
	grantAttempts.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveGrantDuration(result string, seconds float64) {
	grantDuration.WithLabelValues(norm(result)).Observe(seconds)
}
