package prometheusmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	s := New(
		WithHost("localhost"),
		WithPort(5000),
		WithPath("/stats"),
		WithLogger(zap.NewExample()),
	)
	assert.Equal(t, "localhost:5000", s.Addr)
	assert.Equal(t, "/stats", s.Path)

	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/stats", w.Header().Get("Location"))
}

func TestHandleRecordsMetrics(t *testing.T) {
	handler := Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	metrics, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range metrics {
		if family.GetName() == "vipscale_requests_total" {
			found = true
		}
	}
	assert.True(t, found)
}
