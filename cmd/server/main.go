package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/srsdeck/internal/api"
	"github.com/vytor/srsdeck/internal/config"
	"github.com/vytor/srsdeck/internal/db"
	"github.com/vytor/srsdeck/internal/logger"
	"github.com/vytor/srsdeck/internal/services"
	"github.com/vytor/srsdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("srsdeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("export_dir=%s", cfg.ExportDir)
	log.Debug("daily_new=%d", cfg.DailyNew)
	log.Debug("intervals=%v", cfg.Intervals)
	log.Debug("min_card_len=%d max_card_len=%d", cfg.MinCardLen, cfg.MaxCardLen)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)

	// The exporter itself never creates directories, so the configured
	// export dir is prepared here at startup.
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		log.Error("failed to create export dir %s: %v", cfg.ExportDir, err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	deckService := services.NewDeckService(database, cfg)

	srv := &api.Server{
		DeckService: deckService,
		ImportPool:  importPool,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	importPool.Stop()

	log.Info("===========================================")
	log.Info("srsdeck Server Stopped")
	log.Info("===========================================")
}
