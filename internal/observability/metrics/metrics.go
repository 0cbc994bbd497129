package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics counters for availability lookups, bookings, history and sessions.
type BotMetrics struct {
	availabilityTotal   *prometheus.CounterVec
	availabilityLatency *prometheus.HistogramVec
	bookingsTotal       *prometheus.CounterVec
	historyDegraded     *prometheus.CounterVec
	sessionEvents       *prometheus.CounterVec
	rateLimited         prometheus.Counter
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthconnect",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Availability lookups by outcome",
		}, []string{"outcome"}),
		availabilityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "healthconnect",
			Subsystem: "availability",
			Name:      "latency_seconds",
			Help:      "Latency of availability lookups",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthconnect",
			Subsystem: "booking",
			Name:      "confirmations_total",
			Help:      "Booking confirmations by mode and outcome",
		}, []string{"mode", "outcome"}),
		historyDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthconnect",
			Subsystem: "history",
			Name:      "degraded_reads_total",
			Help:      "History reads that fell back to an empty list",
		}, []string{"reason"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthconnect",
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Login and logout transitions",
		}, []string{"kind"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "healthconnect",
			Subsystem: "bot",
			Name:      "rate_limited_updates_total",
			Help:      "Updates dropped by the per-user rate limiter",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.availabilityTotal,
		m.availabilityLatency,
		m.bookingsTotal,
		m.historyDegraded,
		m.sessionEvents,
		m.rateLimited,
	)
	return m
}

func (m *BotMetrics) ObserveAvailability(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
	m.availabilityLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *BotMetrics) ObserveBooking(mode, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *BotMetrics) ObserveHistoryDegraded(reason string) {
	if m == nil {
		return
	}
	m.historyDegraded.WithLabelValues(reason).Inc()
}

func (m *BotMetrics) ObserveSessionEvent(kind string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(kind).Inc()
}

func (m *BotMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
