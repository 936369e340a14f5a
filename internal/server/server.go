// FilePath: server/sweeps/internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/itsatony/w4b_v3/server/sweeps/api"
	"github.com/itsatony/w4b_v3/server/sweeps/api/resources"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/database"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/monitoring"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/repository/files"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/repository/postgres"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	service    *service.Service
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
		monitoring: monitoring.NewService(monitoring.Config{
			Namespace: "sweeps_api",
		}),
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.db = initDB(s.config.Database)
	s.service = initializeService(s.config, s.db)

	// Set up lifecycle event handlers
	s.setupEventHandlers()

	// Setup routes
	s.srv.Handler = s.handler()

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Failed to close database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handler wires routes, metrics and the access log around the service
func (s *Server) handler() http.Handler {
	res := resources.NewResources(s.service, s.config.FileStore.MaxFileSize)
	res.SetHealthCheck(s.handleHealth())
	if s.config.Monitoring.MetricsEnabled {
		res.SetMetrics(s.monitoring.Handler().ServeHTTP)
	}

	var h http.Handler = api.NewRouter(res)
	h = s.monitoring.Middleware(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(os.Stdout, h)
}

// handleHealth reports ok while the database answers pings
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := s.db.Ping(ctx); err != nil {
			nuts.L.Warnf("[Server] Health check failed: %v", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupEventHandlers() {
	handlers := map[string]interface{}{
		service.EventSweepUploaded: func(id int64, device, filename string) {
			s.monitoring.RecordEvent("sweep_upload", map[string]string{
				"sweep_id": strconv.FormatInt(id, 10),
				"device":   device,
				"filename": filename,
			})
		},
		service.EventDeviceRegistered: func(device string) {
			nuts.L.Infof("[Server] New device %s registered", device)
			s.monitoring.RecordEvent("device_registration", nil)
		},
		service.EventArtifactServed: func(id int64, filename string) {
			s.monitoring.RecordEvent("sweep_download", map[string]string{
				"sweep_id": strconv.FormatInt(id, 10),
				"filename": filename,
			})
		},
	}

	for event, handler := range handlers {
		if err := s.service.On(event, "monitoring", handler); err != nil {
			nuts.L.Errorf("[Server] %v", err)
		}
	}
}

// initializeService creates and configures the sweep service
func initializeService(cfg *config.Config, db database.DB) *service.Service {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize repositories
	sweeps := postgres.NewSweepRepository(db)
	devices := postgres.NewDeviceRepository(db)
	if err := sweeps.EnsureSchema(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize sweeps schema: %v", err)
	}
	if err := devices.EnsureSchema(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize devices schema: %v", err)
	}

	artifacts, err := files.NewFileRepository(files.FileConfig{
		BasePath:    cfg.FileStore.BasePath,
		MaxFileSize: cfg.FileStore.MaxFileSize,
	})
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize file repository: %v", err)
	}

	svc := service.New(sweeps, devices, artifacts)
	if err := svc.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Invalid service: %v", err)
	}
	return svc
}

func initDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to database: %v", err)
	}
	// Set up connection timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping database: %v", err)
	}
	return wrappedDB
}
