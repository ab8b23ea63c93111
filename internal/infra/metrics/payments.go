package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		paymentVerifyTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (created/paid/failed).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of paid payments, labeled by currency.",
		},
		[]string{"currency"},
	)

	paymentVerifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_total",
			Help: "Confirmation attempts by outcome (confirmed/already_processed/not_captured/signature_mismatch/gateway_error).",
		},
		[]string{"outcome"},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(currency string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func IncPaymentVerify(outcome string) {
	paymentVerifyTotal.WithLabelValues(norm(outcome)).Inc()
}
