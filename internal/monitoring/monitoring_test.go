package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEventCounts(t *testing.T) {
	s := NewService(Config{Namespace: "test"})

	s.RecordEvent("sweeps.all.loaded", map[string]string{"count": "3"})
	s.RecordEvent("sweeps.all.loaded", nil)
	s.RecordEvent("sweep.downloaded", nil)

	assert.Equal(t, 2.0, s.EventCount("sweeps.all.loaded"))
	assert.Equal(t, 1.0, s.EventCount("sweep.downloaded"))
	assert.Equal(t, 0.0, s.EventCount("never"))
}

func TestHandlerExposesMetrics(t *testing.T) {
	s := NewService(Config{})
	s.RecordEvent("sweeps.latest.loaded", nil)

	handler := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sweeps_events_total{event="sweeps.latest.loaded"} 1`)
	assert.Contains(t, string(body), `sweeps_http_requests_total{code="418",method="GET"} 1`)
	assert.Contains(t, string(body), "sweeps_http_request_duration_seconds_count 1")
}
