// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mealledger"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "RPC calls by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC handling time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	DayMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "day_mutations_total",
		Help:      "Attempted changes to a date's allocation unit by cause and outcome.",
	}, []string{"cause", "outcome"})

	BillingMembers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_members_total",
		Help:      "Members processed by billing runs by outcome.",
	}, []string{"outcome"})

	BillingRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "billing_run_duration_seconds",
		Help:      "Time to process one billing month.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
