// FilePath: server/sweeps/cmd/sweepd/main.go
package main

import (
	"log"
	"os"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/banner"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	// Initialize version info
	nuts.InitVersion()
	// Clear console and draw logo
	banner.ClearConsole()
	banner.DrawLogo("sweepd")
	nuts.L.Infof("[Main] Starting Sweeps API Server v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}
