// FilePath: server/sweeps/internal/monitoring/monitoring.go
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	// Namespace prefixes every metric name, e.g. "sweeps_console".
	Namespace string
}

// Service provides monitoring functionality
type Service struct {
	config   Config
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewService creates a new monitoring service with its own registry
func NewService(config Config) *Service {
	if config.Namespace == "" {
		config.Namespace = "sweeps"
	}

	s := &Service{
		config:   config,
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_total",
			Help:      "Total number of recorded lifecycle events",
		}, []string{"event"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP request processing in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	s.registry.MustRegister(
		s.events,
		s.requests,
		s.requestDuration,
		collectors.NewGoCollector(),
	)
	return s
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// EventCount returns how often an event has been recorded so far.
func (s *Service) EventCount(eventName string) float64 {
	families, err := s.registry.Gather()
	if err != nil {
		return 0
	}
	name := s.config.Namespace + "_events_total"
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "event" && lp.GetValue() == eventName {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// Handler exposes the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by method and status code and observes their latency.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			s.requestDuration.Observe(time.Since(start).Seconds())
			s.requests.WithLabelValues(r.Method, strconv.Itoa(recorder.status)).Inc()
		}()

		next.ServeHTTP(recorder, r)
	})
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
