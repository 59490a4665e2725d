package main

// @title           EU-Lens API
// @version         1.0
// @description     Question answering over EU legislation with cited sources.

// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from the sign-in provider. Format: "Bearer {token}"

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/eulens/eulens/docs"
	"github.com/eulens/eulens/internal/adapters/driving/http"
	"github.com/eulens/eulens/internal/app"
	"github.com/eulens/eulens/internal/config"
)

var version = "dev"

func main() {
	log.Printf("eulens %s starting", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := cfg.Validate(); err != nil {
		// Requests needing a missing provider fail individually
		log.Printf("Warning: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Logger: slog.Default()})
	if err != nil {
		log.Fatalf("Failed to initialise services: %v", err)
	}
	defer a.Close()

	serverCfg := http.DefaultConfig()
	serverCfg.Port = cfg.Port
	serverCfg.Version = version
	serverCfg.CORSOrigins = cfg.CORSOrigins

	server := http.NewServer(serverCfg, a.Chat, a.Ingestion, a.Services, a.Verifier)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutdown signal received, stopping...")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("eulens stopped")
}
