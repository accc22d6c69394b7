package metrics

import "github.com/prometheus/client_golang/prometheus"

// CallMetrics exposes counters/histograms for call-handling flows.
type CallMetrics struct {
	turnsTotal    *prometheus.CounterVec
	otpLookups    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	turnLatency   *prometheus.HistogramVec
}

func NewCallMetrics(reg prometheus.Registerer) *CallMetrics {
	m := &CallMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echomi",
			Subsystem: "calls",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"stage", "intent"}),
		otpLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echomi",
			Subsystem: "calls",
			Name:      "otp_lookups_total",
			Help:      "Total OTP lookups by outcome tier",
		}, []string{"tier"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echomi",
			Subsystem: "calls",
			Name:      "notifications_total",
			Help:      "Total owner notifications pushed",
		}, []string{"type", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "echomi",
			Subsystem: "calls",
			Name:      "turn_latency_seconds",
			Help:      "Latency of conversation turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.otpLookups, m.notifications, m.turnLatency)
	return m
}

func (m *CallMetrics) ObserveTurn(stage, intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(stage, intent).Inc()
}

func (m *CallMetrics) ObserveOTPLookup(tier string) {
	if m == nil {
		return
	}
	m.otpLookups.WithLabelValues(tier).Inc()
}

func (m *CallMetrics) ObserveNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, status).Inc()
}

func (m *CallMetrics) ObserveTurnLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(stage).Observe(seconds)
}
