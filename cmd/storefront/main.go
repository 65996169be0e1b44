package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/flicky/go-storefront/internal/config"
	"github.com/flicky/go-storefront/internal/gateway"
	"github.com/flicky/go-storefront/internal/server"
	"github.com/flicky/go-storefront/internal/worker"
)

// The storefront binary runs the development API server: the in-memory mock
// backend exposed over the same HTTP surface a production deployment would
// serve, so real-mode clients can be pointed at it.
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := gateway.NewMockStore(gateway.MockOptionsFromConfig(cfg.Mock))
	srv := server.New(store, cfg.API.Version, cfg.Mock.JWTSecret, log)

	var settler *worker.OrderSettler
	if cfg.Mock.SettleOrders {
		settler = worker.NewOrderSettler(store, cfg.Mock.SettleAfter/2, cfg.Mock.SettleAfter, log)
		settler.Start(ctx)
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting dev API server", "port", cfg.Server.Port, "version", cfg.API.Version)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if settler != nil {
		settler.Stop()
	}
	cancel()
	log.Info("server stopped")
}
