package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		membershipsActivatedTotal,
		membershipsExpiredTotal,
		membershipRemindersTotal,
	)
}

var (
	membershipsActivatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memberships_activated_total",
			Help: "Memberships activated by plan type (subscription/day-pass).",
		},
		[]string{"plan_type"},
	)

	membershipsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memberships_expired_total",
			Help: "Memberships swept to inactive by the expiry worker.",
		},
	)

	membershipRemindersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_reminders_total",
			Help: "Expiry reminder mails dispatched.",
		},
	)
)

func IncMembershipActivated(planType string) {
	membershipsActivatedTotal.WithLabelValues(norm(planType)).Inc()
}

func AddMembershipsExpired(n int) {
	membershipsExpiredTotal.Add(float64(n))
}

func AddMembershipReminders(n int) {
	membershipRemindersTotal.Add(float64(n))
}
