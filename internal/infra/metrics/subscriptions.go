package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(subscriptionExtensionsTotal)
}

var subscriptionExtensionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subscription_extensions_total",
		Help: "Subscription extensions applied, labeled by plan type.",
	},
	[]string{"plan"},
)

func IncSubscriptionExtension(plan string) {
	subscriptionExtensionsTotal.WithLabelValues(norm(plan)).Inc()
}
