package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ednaviz/internal/config"
	"ednaviz/internal/logger"
	"ednaviz/internal/server"
)

// sweepInterval is how often idle sessions are expired
const sweepInterval = time.Minute

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // exports render every chart in every format
		IdleTimeout:  60 * time.Second,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(logger.Global(), cfg.LogLevel, cfg.LogFormat)
	log := logger.Component("main")

	version := config.GetVersion()
	log.Info("Starting eDNA dashboard service", logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"storage":     string(cfg.StorageMode),
		"version":     version,
	})

	srv, err := server.NewServer(ctx, cfg, version)
	if err != nil {
		log.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		srv.Sessions.Run(ctx, sweepInterval)
	}()

	httpServer := newHTTPServer(cfg, srv.SetupRoutes())
	go func() {
		log.Info("Server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
	<-sessionsDone

	log.Info("Server stopped")
}
