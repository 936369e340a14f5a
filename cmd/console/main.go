// FilePath: server/sweeps/cmd/console/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/banner"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()
	banner.ClearConsole()
	banner.DrawLogo("console")
	nuts.L.Infof("[Main] Starting Sweeps Console v%s", nuts.GetVersion())

	srv, err := InitializeConsole()
	if err != nil {
		nuts.L.Fatalf("[Main] Failed to initialize console: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.Activate()
	if err := srv.ListenAndServe(ctx); err != nil {
		nuts.L.Errorf("[Main] Console error: %v", err)
		os.Exit(1)
	}
}
