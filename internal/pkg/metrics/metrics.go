// Package metrics declares the service's Prometheus collectors. They register with
// the default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aqualink"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	QuotesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_submitted_total",
		Help:      "Delivery quotes stored",
	})

	QuotesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_accepted_total",
		Help:      "Delivery quotes accepted by customers",
	})

	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Order status changes by target status",
	}, []string{"status"})

	ExpiredRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expired_quote_requests_total",
		Help:      "Quote requests moved to EXPIRED by the sweep",
	})

	ExpiredQuotes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expired_quotes_total",
		Help:      "Quotes moved to EXPIRED by the sweep",
	})

	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_events_published_total",
		Help:      "Outbox events published to the broker",
	})

	OutboxPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_publish_errors_total",
		Help:      "Outbox events that failed to publish and were returned to the queue",
	})
)
