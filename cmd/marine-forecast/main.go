package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/marine-forecast/internal/api/http"
	"github.com/i474232898/marine-forecast/internal/config"
	"github.com/i474232898/marine-forecast/internal/request"
	"github.com/i474232898/marine-forecast/internal/scheduler"
	"github.com/i474232898/marine-forecast/internal/store"
	"github.com/i474232898/marine-forecast/internal/weather"
	"github.com/i474232898/marine-forecast/internal/weather/providers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration.
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared request executor for outbound provider calls (retries + circuit breaker).
	client := request.New(request.Config{
		Name:       "stormglass",
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.HTTPRetryCount,
		RetryWait:  cfg.HTTPRetryWait,
	})

	stormGlass := providers.NewStormGlassProvider(client, providers.StormGlassConfig{
		BaseURL: cfg.StormGlassURL,
		Token:   cfg.StormGlassToken,
		Source:  cfg.StormGlassSource,
	})

	memStore := store.NewMemoryStore(cfg.StoreMaxAge)

	// Core service orchestrating the provider and store.
	service := weather.NewService(stormGlass, memStore, cfg.Beaches)
	log.Printf("INFO: tracking %d beaches with %s (source %s)", len(cfg.Beaches), stormGlass.Name(), stormGlass.Source())

	// Scheduler that periodically refreshes stored forecasts.
	if len(cfg.Beaches) > 0 {
		sched := scheduler.New(cfg.FetchInterval, service, memStore)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("INFO: no beaches configured; scheduler disabled")
	}

	app := httpapi.NewApp(service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
