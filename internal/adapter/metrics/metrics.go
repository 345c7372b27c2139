package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics holds all Prometheus metrics for the storefront service.
type StoreMetrics struct {
	AuthAttempts         *prometheus.CounterVec
	CheckoutsTotal       *prometheus.CounterVec
	ChargedCentsTotal    prometheus.Counter
	ReconciliationNeeded prometheus.Counter
	ItemCacheHits        prometheus.Counter
	ItemCacheMisses      prometheus.Counter
}

// NewStoreMetrics initializes and registers the Prometheus metrics.
func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{
		AuthAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Total number of authentication attempts by outcome.",
		}, []string{"operation", "outcome"}), // operation: signup, signin, reset_request, reset_redeem
		CheckoutsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "total",
			Help:      "Total number of checkout attempts by outcome.",
		}, []string{"outcome"}), // outcome: success, declined, uncertain, error
		ChargedCentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "charged_cents_total",
			Help:      "Total amount successfully charged, in minor currency units.",
		}),
		ReconciliationNeeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "reconciliation_needed_total",
			Help:      "Charges captured whose order could not be materialized; each one requires manual reconciliation.",
		}),
		ItemCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "item_cache_hits_total",
			Help:      "Total number of item cache hits.",
		}),
		ItemCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "item_cache_misses_total",
			Help:      "Total number of item cache misses.",
		}),
	}
}
