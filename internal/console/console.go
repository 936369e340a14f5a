// FilePath: server/sweeps/internal/console/console.go
package console

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/monitoring"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
	nuts "github.com/vaudience/go-nuts"
)

//go:embed templates/*.html
var templateFS embed.FS

// firstRenderWait bounds how long a page render waits for in-flight fetches.
const firstRenderWait = 3 * time.Second

// Server is the browser front-end of one sweep view
type Server struct {
	config     config.ServerConfig
	metrics    bool
	view       *sweepview.Component
	monitoring *monitoring.Service
	decoder    *schema.Decoder
	pages      *template.Template
	srv        *http.Server

	// base outlives single requests; activations started by a refresh use it
	base   context.Context
	cancel context.CancelFunc
}

// NewServer creates the console around view
func NewServer(cfg *config.Config, view *sweepview.Component, mon *monitoring.Service) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse console templates: %w", err)
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:     cfg.Console,
		metrics:    cfg.Monitoring.MetricsEnabled,
		view:       view,
		monitoring: mon,
		decoder:    decoder,
		pages:      pages,
		base:       base,
		cancel:     cancel,
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Console.Host, cfg.Console.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Console.ReadTimeout,
		WriteTimeout: cfg.Console.WriteTimeout,
	}
	s.setupEventHandlers()
	return s, nil
}

// Addr is the listen address of the console
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Activate loads the sweeps the console shows
func (s *Server) Activate() {
	s.view.Activate(s.base)
}

// Handler returns the console routes wrapped in metrics, recovery and access log
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/display", s.handleDisplay).Methods(http.MethodPost)
	router.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	router.HandleFunc("/sweeps", s.handleSweeps).Methods(http.MethodGet)
	router.HandleFunc("/sweeps/{id:[0-9]+}/download", s.handleDownload).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics {
		router.Handle("/metrics", s.monitoring.Handler()).Methods(http.MethodGet)
	}

	var h http.Handler = s.monitoring.Middleware(router)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(os.Stdout, h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and deactivates the view.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		nuts.L.Infof("[Console] Listening on http://%s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.shutdownView()
		return fmt.Errorf("console server failed: %w", err)
	case <-ctx.Done():
	}

	nuts.L.Infof("[Console] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	s.shutdownView()
	if err != nil {
		return fmt.Errorf("error shutting down console: %w", err)
	}
	return nil
}

func (s *Server) shutdownView() {
	s.view.Deactivate()
	s.cancel()
}

func (s *Server) setupEventHandlers() {
	handlers := map[string]interface{}{
		sweepview.EventLatestLoaded: func(count int) {
			s.monitoring.RecordEvent("latest_loaded", countLabel(count))
		},
		sweepview.EventAllLoaded: func(count int) {
			s.monitoring.RecordEvent("all_loaded", countLabel(count))
		},
		sweepview.EventFetchFailed: func(collection string, err error) {
			s.monitoring.RecordEvent("fetch_failed", map[string]string{
				"collection": collection,
				"error":      err.Error(),
			})
		},
		sweepview.EventDownloaded: func(id int64, filename string, size int) {
			s.monitoring.RecordEvent("download", map[string]string{
				"sweep_id": strconv.FormatInt(id, 10),
				"filename": filename,
				"size":     strconv.Itoa(size),
			})
		},
	}

	for event, handler := range handlers {
		if err := s.view.On(event, "monitoring", handler); err != nil {
			nuts.L.Errorf("[Console] %v", err)
		}
	}
}

func countLabel(count int) map[string]string {
	return map[string]string{"count": strconv.Itoa(count)}
}
