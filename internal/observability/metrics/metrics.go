package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for the LINE webhook flow.
type WebhookMetrics struct {
	inboundTotal   *prometheus.CounterVec
	dispatchTotal  *prometheus.CounterVec
	lookupFailures prometheus.Counter
	webhookLatency prometheus.Histogram
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundrybot",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound LINE webhook requests",
		}, []string{"status"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundrybot",
			Subsystem: "webhook",
			Name:      "dispatch_total",
			Help:      "Total outbound reply dispatches",
		}, []string{"status"}),
		lookupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "laundrybot",
			Subsystem: "webhook",
			Name:      "lookup_failures_total",
			Help:      "Total record store lookup failures (excluding not-found)",
		}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "laundrybot",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.dispatchTotal, m.lookupFailures, m.webhookLatency)
	return m
}

func (m *WebhookMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *WebhookMetrics) ObserveDispatch(status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(status).Inc()
}

func (m *WebhookMetrics) ObserveLookupFailure() {
	if m == nil {
		return
	}
	m.lookupFailures.Inc()
}

func (m *WebhookMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
