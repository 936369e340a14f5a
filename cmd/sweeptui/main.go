// FilePath: server/sweeps/cmd/sweeptui/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/banner"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/config"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/repository/files"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepclient"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/tui"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()
	banner.ClearConsole()
	banner.DrawLogo("sweeptui")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	restoreLogs, err := tui.LogToFile(cfg.TUI.LogFile)
	if err != nil {
		log.Fatalf("Failed to redirect logs: %v", err)
	}

	saver := files.NewDiskSaver(cfg.Download.Dir)
	view := sweepview.New(sweepclient.New(cfg.Backend), saver)
	view.Activate(ctx)

	err = tui.Run(ctx, view, saver)
	view.Deactivate()
	restoreLogs()
	if err != nil {
		nuts.L.Errorf("[Main] TUI error: %v", err)
		os.Exit(1)
	}
}
