package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveAvailability("ok", 0.2)
	m.ObserveAvailability("ok", 0.1)
	m.ObserveAvailability("unavailable", 1.5)
	m.ObserveBooking("local", "confirmed")
	m.ObserveHistoryDegraded("corrupt")
	m.ObserveSessionEvent("login")
	m.ObserveRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.availabilityTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityTotal.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("local", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.historyDegraded.WithLabelValues("corrupt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionEvents.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
}

func TestBotMetricsDefaultRegistry(t *testing.T) {
	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	defer func() { prometheus.DefaultRegisterer = prev }()

	m := NewBotMetrics(nil)
	m.ObserveBooking("server", "failed")
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveAvailability("ok", 0.1)
	m.ObserveBooking("local", "confirmed")
	m.ObserveHistoryDegraded("corrupt")
	m.ObserveSessionEvent("logout")
	m.ObserveRateLimited()
}
