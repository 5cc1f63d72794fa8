package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/defect-reporter/internal/app"
	"github.com/Adda-Baaj/defect-reporter/internal/config"
	"github.com/Adda-Baaj/defect-reporter/internal/logger"
	"github.com/Adda-Baaj/defect-reporter/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "defect-reporter failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("defect-reporter starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter, err := app.NewReporter(ctx, cfg, log, app.Streams{
		In:       os.Stdin,
		Out:      os.Stdout,
		Terminal: tui.TerminalOptions(os.Stdin),
	})
	if err != nil {
		log.ErrorObj("failed to initialize reporter", "error", err.Error())
		return err
	}

	if err := reporter.Run(ctx); err != nil {
		return fmt.Errorf("reporter run: %w", err)
	}

	return nil
}
