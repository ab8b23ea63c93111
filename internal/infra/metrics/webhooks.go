package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookEventsTotal)
}

var webhookEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook deliveries by event kind or drop reason.",
	},
	[]string{"kind"},
)

func IncWebhookEvent(kind string) {
	webhookEventsTotal.WithLabelValues(norm(kind)).Inc()
}
