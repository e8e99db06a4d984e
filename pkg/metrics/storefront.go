package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the public order intake handler
	OrderCreateLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_create_latency_seconds",
		Help:    "Latency of the public order creation handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total orders accepted
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders accepted",
	})

	// Likes that incremented a product counter
	FirstTimeLikes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_likes_first_time_total",
		Help: "Likes that were the first for their (customer, product) pair",
	})

	// Likes absorbed by the dedup path
	DuplicateLikes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_likes_duplicate_total",
		Help: "Repeat likes absorbed without incrementing a counter",
	})
)

func Init() {
	prometheus.MustRegister(
		OrderCreateLatency,
		OrdersCreated,
		FirstTimeLikes,
		DuplicateLikes,
	)
}
