package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eulens/eulens/internal/adapters/driving/cli"
	"github.com/eulens/eulens/internal/app"
	"github.com/eulens/eulens/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Strict: true, Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	cli.SetServices(a.Ingestion, a.Chat, a.Services, a.Lock)
	return cli.Execute(ctx)
}
