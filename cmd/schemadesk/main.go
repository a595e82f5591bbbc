package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"fyne.io/fyne/v2/app"
	deskApp "github.com/shhac/schemadesk/internal/app"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/shhac/schemadesk/internal/ui"
)

func main() {
	if err := runApp(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// runApp is the main application entry point with panic recovery.
func runApp() (err error) {
	// Create a temporary stdout logger for bootstrap errors
	tempLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			tempLogger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	configPath := flag.String("config", "", "path to config file (default $XDG_CONFIG_HOME/schemadesk/config.yaml)")
	flag.Parse()

	tempLogger.Info("starting schemadesk")

	cfg, err := deskApp.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.InitLogger("schemadesk", cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	desk, err := deskApp.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	fyneApp := app.NewWithID("com.schemadesk.client")
	ui.LoadThemePreference(fyneApp)

	mainWindow := ui.NewMainWindow(fyneApp, desk)
	mainWindow.ShowAndRun()

	logger.Info("application shutdown complete")
	return nil
}
