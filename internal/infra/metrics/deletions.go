package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(deletionsTotal)
}

var deletionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deletions_total",
		Help: "Profile and account deletion runs by outcome (committed/aborted).",
	},
	[]string{"kind", "outcome"},
)

func IncDeletion(kind, outcome string) {
	deletionsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}
