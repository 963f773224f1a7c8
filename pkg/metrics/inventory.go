package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of all HTTP handlers, labeled by route.
	RequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_http_request_latency_seconds",
		Help:    "Latency of inventory API handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// Mutations applied to the product store, labeled by history action.
	InventoryMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Total number of product store mutations",
	}, []string{"action"})

	// Label scans attempted, labeled by outcome.
	LabelScans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_label_scans_total",
		Help: "Total number of label scan requests",
	}, []string{"outcome"})

	// Outbound calls to the geocoding/routing services.
	RoutingLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_routing_lookups_total",
		Help: "Total number of route planning lookups",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RequestLatency,
		InventoryMutations,
		LabelScans,
		RoutingLookups,
	)
}
