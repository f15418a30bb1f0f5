package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmoreau/wordflash/internal/api"
	"github.com/nmoreau/wordflash/internal/clock"
	"github.com/nmoreau/wordflash/internal/config"
	"github.com/nmoreau/wordflash/internal/db"
	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/repository/sqlite"
	"github.com/nmoreau/wordflash/internal/services"
	"github.com/nmoreau/wordflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WordFlash Review Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_stale_minutes=%d", cfg.SessionStaleMinutes)
	log.Debug("summary_batch_size=%d", cfg.SummaryBatchSize)
	log.Debug("due_words_limit=%d", cfg.DueWordsLimit)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	wordRepo := sqlite.NewWordRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	clk := clock.System{}
	dueService := services.NewDueService(wordRepo, progressRepo, clk)
	staleAfter := time.Duration(cfg.SessionStaleMinutes) * time.Minute
	sessionService := services.NewSessionService(sessionRepo, wordRepo, progressRepo, dueService, clk, services.SessionConfig{
		StaleAfter: staleAfter,
		BatchSize:  cfg.SummaryBatchSize,
		WordLimit:  cfg.DueWordsLimit,
	})

	srv := &api.Server{
		Due:      dueService,
		Sessions: sessionService,
		DueLimit: cfg.DueWordsLimit,
	}

	sweeper := worker.NewSweeper(sessionRepo, clk, staleAfter, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	sweeper.Sweep(ctx) // reclaim sessions abandoned before this start

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

	log.Debug("stopping session sweeper")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	sweeper.Stop()

	log.Info("===========================================")
	log.Info("WordFlash Review Server Stopped")
	log.Info("===========================================")
}
