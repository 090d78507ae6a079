package metrics

import (
	"testing"
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// createTestMetrics creates metrics with a custom registry for testing.
// This avoids conflicts with the default registry.
func createTestMetrics(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.NewRegistry())
}

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("", reg)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.TransitionsTotal)
	assert.NotNil(t, m.SweepDuration)

	m.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	families, err := reg.Gather()
	assert.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "homerent_http_requests_total" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := createTestMetrics("http_test")

	t.Run("records successful request", func(t *testing.T) {
		m.RecordHTTPRequest("GET", "/api/v1/landlord-subscription/plans", 200, 100*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/landlord-subscription/plans", "2xx"))
		assert.Equal(t, float64(1), count)
	})

	t.Run("records client error", func(t *testing.T) {
		m.RecordHTTPRequest("POST", "/api/v1/landlord-subscription/create", 400, 50*time.Millisecond)

		count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/landlord-subscription/create", "4xx"))
		assert.Equal(t, float64(1), count)
	})
}

func TestMetrics_ObserveTransition(t *testing.T) {
	m := createTestMetrics("transition_test")

	m.ObserveTransition(model.HistoryActionCreated)
	m.ObserveTransition(model.HistoryActionCreated)
	m.ObserveTransition(model.HistoryActionAutoRenewFailed)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("CREATED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("AUTO_RENEW_FAILED")))
}

func TestMetrics_ObserveSweep(t *testing.T) {
	m := createTestMetrics("sweep_test")

	t.Run("clean run", func(t *testing.T) {
		m.ObserveSweep(&model.SweepResult{Job: "expiry", Scanned: 3, Succeeded: 3, Duration: time.Second})

		assert.Equal(t, float64(1), testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("expiry", "ok")))
		assert.Equal(t, float64(3), testutil.ToFloat64(m.SweepItemsTotal.WithLabelValues("expiry", "succeeded")))
	})

	t.Run("partial run", func(t *testing.T) {
		m.ObserveSweep(&model.SweepResult{Job: "auto-renew", Scanned: 2, Succeeded: 1, Failed: 1})

		assert.Equal(t, float64(1), testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("auto-renew", "partial")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.SweepItemsTotal.WithLabelValues("auto-renew", "failed")))
	})
}

func TestMetrics_RecordEmail(t *testing.T) {
	m := createTestMetrics("email_test")

	m.RecordEmail("renewal_succeeded", "sent")
	m.RecordEmail("renewal_failed", "rejected")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EmailsTotal.WithLabelValues("renewal_succeeded", "sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EmailsTotal.WithLabelValues("renewal_failed", "rejected")))
}

func TestMetrics_RecordCache(t *testing.T) {
	m := createTestMetrics("cache_test")

	t.Run("records cache hit", func(t *testing.T) {
		m.RecordCacheHit("settings")

		count := testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("settings"))
		assert.Equal(t, float64(1), count)
	})

	t.Run("records cache miss", func(t *testing.T) {
		m.RecordCacheMiss("settings")

		count := testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("settings"))
		assert.Equal(t, float64(1), count)
	})
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCodeToString(tt.code))
		})
	}
}
