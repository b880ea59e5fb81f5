// Package main is the entry point for the crudcenter list API server.
// Each resource is served from its named database connection.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/compress/gzhttp"

	"crudcenter/internal/config"
	"crudcenter/internal/domain/resource"
	v1 "crudcenter/internal/infrastructure/http/v1"
	"crudcenter/internal/infrastructure/http/v1/handlers"
	"crudcenter/internal/infrastructure/storage/dbrouter"
	"crudcenter/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting crudcenter server", "env", cfg.App.Env)

	// --- Resources ---
	resources, err := resource.Builtin()
	if err != nil {
		log.Fatalw("invalid resource declarations", "error", err)
	}

	// --- Connection router ---
	conns := cfg.Connections()
	router, err := dbrouter.New(cfg.RouterConfig(), conns, dbrouter.DefaultOpeners(cfg.PoolConfig()), log)
	if err != nil {
		log.Fatalw("invalid connection configuration", "error", err)
	}
	defer router.Close()

	for _, name := range resources.Connections() {
		if _, err := router.Dialect(name); err != nil {
			log.Warnw("resources on this connection will fail until it is configured", "connection", name)
		}
	}

	if cfg.Router.Prewarm {
		log.Info("prewarming connections...")
		if err := router.Prewarm(ctx); err != nil {
			log.Warnw("failed to prewarm some connections", "error", err)
		}
	}

	// --- HTTP ---
	engine := v1.NewRouter(v1.RouterConfig{
		AppName:     cfg.App.Name,
		Resources:   resources,
		Assemblers:  router,
		Connections: router,
		List: handlers.ListOptions{
			DefaultSize: cfg.Query.DefaultSize,
			MaxLimit:    cfg.Query.MaxLimit,
			Mode:        cfg.OrderMode(),
		},
		Logger: log,
	})

	var handler http.Handler = engine
	if cfg.HTTP.Gzip {
		handler = gzhttp.GzipHandler(engine)
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting",
			"port", cfg.HTTP.Port,
			"resources", resources.Names(),
			"connections", router.Names(),
			"order_mode", cfg.OrderMode().String(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
