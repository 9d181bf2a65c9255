package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ride_console/internal/console"
	apphttp "ride_console/internal/http"
	"ride_console/internal/http/router"
	"ride_console/internal/live"
	"ride_console/internal/maps"
	"ride_console/internal/rideapi"
	"ride_console/platform/config"
	"ride_console/platform/httpkit"
	"ride_console/platform/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting ride console", "env", cfg.Env, "backend", cfg.GetBackendBaseURL(), "geocoder", cfg.GetGeocoderProvider())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Collaborators
	// ========================================================================

	geocoder := maps.NewServiceFromConfig(cfg, log)
	if !geocoder.Ready() {
		log.Warn("geocoding provider not initialized; address lookups will fail", "provider", geocoder.ProviderName())
	}

	backend := rideapi.New(cfg.GetBackendBaseURL(), cfg.GetBackendTimeout(), log)
	hub := live.NewHub(cfg.GetLiveBuffer(), log)
	geocodeLimiter := httpkit.NewGeocodeRateLimiter(log)

	// ========================================================================
	// Modules
	// ========================================================================

	consoleModule := console.NewModule(backend, geocoder, hub, cfg, geocodeLimiter, log)
	mapsModule := maps.NewModule(geocoder, geocodeLimiter)
	liveModule := live.NewModule(hub)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: []apphttp.HealthChecker{consoleModule.Service(), hub},
		Modules: []apphttp.Module{
			consoleModule,
			mapsModule,
			liveModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("console session created", "console_id", consoleModule.Service().ID())
	go consoleModule.Start(ctx)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.GetHTTPAddr())
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	hub.Close()
	consoleModule.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("ride console stopped")
}
