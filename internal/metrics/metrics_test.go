package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRefresh(t *testing.T) {
	m := New()
	m.ObserveRefresh(RefreshApplied, time.Now())
	m.ObserveRefresh(RefreshApplied, time.Now())
	m.ObserveRefresh(RefreshStale, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues(RefreshApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues(RefreshStale)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues(RefreshFailed)))
}

func TestObserveNotification(t *testing.T) {
	m := New()
	m.ObserveNotification(nil)
	m.ObserveNotification(errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsOut.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsOut.WithLabelValues("failed")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRefresh(RefreshFailed, time.Now())
		m.ObserveFetch("coingecko", time.Now(), nil)
		m.ObserveNotification(nil)
		m.StreamConnected(1)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cryptopulse_http_requests_total")
}
