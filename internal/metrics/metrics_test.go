package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompletion(t *testing.T) {
	m := New()
	m.ObserveCompletion("ok", 120, 300*time.Millisecond)
	m.ObserveCompletion("rate_limited", 0, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletionRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletionRequests.WithLabelValues("rate_limited")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.CompletionTokens))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCompletion("ok", 1, time.Second)
		m.ObserveHTTP("/api/chats", http.MethodGet, http.StatusOK, time.Second)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/chats", http.MethodGet, http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `codementor_http_requests_total{method="GET",route="/api/chats",status="200"} 1`))
}
