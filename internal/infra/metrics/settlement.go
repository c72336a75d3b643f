package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(settlementCallbacksTotal)
}

var settlementCallbacksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "settlement_callbacks_total",
		Help: "Gateway IPN callbacks by outcome (completed/already_settled/failed_recorded/bad_signature/unknown_order/amount_mismatch).",
	},
	[]string{"outcome"},
)

func IncSettlementCallback(outcome string) {
	settlementCallbacksTotal.WithLabelValues(norm(outcome)).Inc()
}
