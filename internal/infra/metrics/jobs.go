package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(
		remindersSentTotal,
		sweepReconciledTotal,
	)
}

var (
	remindersSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminder messages sent by kind (subscription/invoice) and status.",
		},
		[]string{"kind", "status"}, // status: sent|error
	)

	sweepReconciledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_sweep_total",
			Help: "Stale pending payments processed by the sweeper, by outcome.",
		},
		[]string{"outcome"}, // granted|skipped|error
	)
)

func IncReminder(kind, status string) {
	remindersSentTotal.WithLabelValues(norm(kind), norm(status)).Inc()
}

func IncSweep(outcome string) {
	sweepReconciledTotal.WithLabelValues(norm(outcome)).Inc()
}
