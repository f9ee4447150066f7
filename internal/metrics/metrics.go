package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks handler latency by route template and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fithub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// WebhookRequestsTotal counts Stripe webhook deliveries by endpoint, event type and outcome.
	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fithub",
		Subsystem: "payments",
		Name:      "webhook_requests_total",
		Help:      "Total Stripe webhook requests by endpoint, event type and HTTP status.",
	}, []string{"endpoint", "event_type", "status"})

	// WebhookDuration tracks Stripe webhook processing latency.
	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fithub",
		Subsystem: "payments",
		Name:      "webhook_duration_seconds",
		Help:      "Stripe webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "event_type"})

	// CheckoutSessionsTotal counts hosted checkout sessions by mode and outcome.
	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fithub",
		Subsystem: "payments",
		Name:      "checkout_sessions_total",
		Help:      "Checkout sessions created by mode (payment/subscription) and outcome.",
	}, []string{"mode", "outcome"})

	// FulfillmentLinesSkipped counts webhook order lines dropped for missing product or stock.
	FulfillmentLinesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fithub",
		Subsystem: "orders",
		Name:      "fulfillment_lines_skipped_total",
		Help:      "Order lines skipped during webhook fulfillment by reason.",
	}, []string{"reason"})

	// SubscriptionTransitions counts subscription reconciliation outcomes.
	SubscriptionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fithub",
		Subsystem: "subscriptions",
		Name:      "transitions_total",
		Help:      "Subscription state transitions applied locally by kind.",
	}, []string{"kind"})
)
