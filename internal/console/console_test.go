package console

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/monitoring"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepclient"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sweepA = `{"id":1,"device_name":"A","hub_timestamp":"2021-06-10T00:00:00Z","server_timestamp":"2021-06-10T00:00:01Z","rssi":-42,"filename":"a.csv"}`
	sweepB = `{"id":2,"device_name":"B","hub_timestamp":"2021-06-09T00:00:00Z","server_timestamp":"2021-06-09T00:00:01Z","rssi":-60,"filename":"scan_007.bin"}`
)

func newSweepAPI(t *testing.T, artifacts map[string][]byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sweep", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, latest := r.URL.Query()["latest"]; latest {
			_, _ = w.Write([]byte("[" + sweepA + "]"))
			return
		}
		_, _ = w.Write([]byte("[" + sweepA + "," + sweepB + "]"))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		content, ok := artifacts[r.URL.Query().Get("id")]
		if !ok {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(content)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestConsole(t *testing.T, backendURL string) (*Server, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		Console:    config.ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: time.Second},
		Monitoring: config.MonitoringConfig{MetricsEnabled: true},
	}
	view := ProvideView(sweepclient.New(config.BackendConfig{URL: backendURL}))
	s, err := NewServer(cfg, view, monitoring.NewService(monitoring.Config{Namespace: "sweeps_console"}))
	require.NoError(t, err)
	t.Cleanup(s.shutdownView)

	s.Activate()
	require.NoError(t, view.Wait(context.Background()))
	return s, s.Handler()
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func visibleIDs(t *testing.T, h http.Handler) []int64 {
	t.Helper()
	rec := do(h, httptest.NewRequest(http.MethodGet, "/sweeps", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ShowAll bool `json:"show_all"`
		Sweeps  []struct {
			ID int64 `json:"id"`
		} `json:"sweeps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	ids := []int64{}
	for _, s := range body.Sweeps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestIndexRendersLatestByDefault(t *testing.T) {
	srv := newSweepAPI(t, nil)
	_, h := newTestConsole(t, srv.URL)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "a.csv")
	assert.NotContains(t, body, "scan_007.bin")
	assert.Contains(t, body, `href="/sweeps/1/download"`)
	assert.NotContains(t, body, "checked")
}

func TestActivationCountsLoadedEvents(t *testing.T) {
	srv := newSweepAPI(t, nil)
	s, _ := newTestConsole(t, srv.URL)

	assert.Equal(t, 1.0, s.monitoring.EventCount("latest_loaded"))
	assert.Equal(t, 1.0, s.monitoring.EventCount("all_loaded"))
	assert.Zero(t, s.monitoring.EventCount("fetch_failed"))
}

func TestDisplayToggle(t *testing.T) {
	srv := newSweepAPI(t, nil)
	_, h := newTestConsole(t, srv.URL)

	assert.Equal(t, []int64{1}, visibleIDs(t, h))

	rec := do(h, postForm("/display", url.Values{"show_all": {"true"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []int64{1, 2}, visibleIDs(t, h))

	do(h, postForm("/display", url.Values{}))
	assert.Equal(t, []int64{1}, visibleIDs(t, h))

	rec = do(h, postForm("/display", url.Values{"show_all": {"maybe"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadAsAttachment(t *testing.T) {
	raw := []byte{0x00, 0x07, 0x00, 0x07, '\n'}
	srv := newSweepAPI(t, map[string][]byte{"2": raw})
	s, h := newTestConsole(t, srv.URL)

	// sweep 2 is only on display once all sweeps are shown
	assert.Equal(t, http.StatusNotFound, do(h, httptest.NewRequest(http.MethodGet, "/sweeps/2/download", nil)).Code)

	do(h, postForm("/display", url.Values{"show_all": {"true"}}))
	rec := do(h, httptest.NewRequest(http.MethodGet, "/sweeps/2/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, raw, rec.Body.Bytes())
	assert.Equal(t, `attachment; filename=scan_007.bin`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))

	require.Eventually(t, func() bool {
		return s.monitoring.EventCount("download") == 1
	}, time.Second, 10*time.Millisecond)
}

// brokenClientWriter accepts headers but fails every body write.
type brokenClientWriter struct {
	header      http.Header
	statusCalls []int
}

func (b *brokenClientWriter) Header() http.Header { return b.header }

func (b *brokenClientWriter) WriteHeader(code int) { b.statusCalls = append(b.statusCalls, code) }

func (b *brokenClientWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestDownloadWriteFailureKeepsCommittedStatus(t *testing.T) {
	srv := newSweepAPI(t, map[string][]byte{"1": []byte("abc")})
	s, _ := newTestConsole(t, srv.URL)

	w := &brokenClientWriter{header: http.Header{}}
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/sweeps/1/download", nil), map[string]string{"id": "1"})
	s.handleDownload(w, req)

	assert.Equal(t, []int{http.StatusOK}, w.statusCalls)
	assert.Equal(t, "attachment; filename=a.csv", w.header.Get("Content-Disposition"))
	assert.NotContains(t, w.header.Get("Content-Type"), "json")
	assert.Zero(t, s.monitoring.EventCount("download"))
}

func TestDownloadUpstreamFailureIsBadGateway(t *testing.T) {
	srv := newSweepAPI(t, map[string][]byte{})
	_, h := newTestConsole(t, srv.URL)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/sweeps/1/download", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"upstream"`)
}

func TestRefreshReactivates(t *testing.T) {
	srv := newSweepAPI(t, nil)
	s, h := newTestConsole(t, srv.URL)

	rec := do(h, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NoError(t, s.view.Wait(context.Background()))

	require.Eventually(t, func() bool {
		return s.monitoring.EventCount("all_loaded") == 2
	}, time.Second, 10*time.Millisecond)
}

func TestUnreachableBackendRendersEmptyTable(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	backendURL := down.URL
	down.Close()

	s, h := newTestConsole(t, backendURL)
	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No sweeps.")

	require.Eventually(t, func() bool {
		return s.monitoring.EventCount("fetch_failed") == 2
	}, time.Second, 10*time.Millisecond)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newSweepAPI(t, nil)
	_, h := newTestConsole(t, srv.URL)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"visible":1`)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweeps_console_http_requests_total")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv := newSweepAPI(t, nil)
	cfg := &config.Config{
		Console: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
	}
	view := sweepview.New(sweepclient.New(config.BackendConfig{URL: srv.URL}), nil)
	s, err := NewServer(cfg, view, monitoring.NewService(monitoring.Config{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not shut down")
	}
}
