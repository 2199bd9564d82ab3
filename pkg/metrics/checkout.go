package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcome labels.
const (
	CheckoutOutcomeSuccess           = "success"
	CheckoutOutcomeEmptyCart         = "empty_cart"
	CheckoutOutcomeInsufficientStock = "insufficient_stock"
	CheckoutOutcomeProductNotFound   = "product_not_found"
	CheckoutOutcomeInvalid           = "invalid"
	CheckoutOutcomeFailed            = "failed"
)

// CheckoutMetrics tracks checkout attempts by outcome and their latency.
type CheckoutMetrics struct {
	attempts         *prometheus.CounterVec
	duration         prometheus.Histogram
	referenceRetries prometheus.Counter
}

// NewCheckoutMetrics registers checkout metrics on reg. A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_attempts_total",
		Help:      "Checkout attempts partitioned by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Wall time spent in the checkout transaction.",
		Buckets:   prometheus.DefBuckets,
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_reference_retries_total",
		Help:      "Checkouts retried after an order reference collision.",
	})
	reg.MustRegister(attempts, duration, retries)
	return &CheckoutMetrics{attempts: attempts, duration: duration, referenceRetries: retries}
}

// Observe records one finished checkout.
func (m *CheckoutMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// IncReferenceRetry counts a reference collision retry.
func (m *CheckoutMetrics) IncReferenceRetry() {
	if m == nil || m.referenceRetries == nil {
		return
	}
	m.referenceRetries.Inc()
}
