package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/mortgage-service/internal/cache"
	"github.com/Dan9191/mortgage-service/internal/config"
	"github.com/Dan9191/mortgage-service/internal/handler"
	"github.com/Dan9191/mortgage-service/internal/integrations/cbr"
	"github.com/Dan9191/mortgage-service/internal/logging"
	"github.com/Dan9191/mortgage-service/internal/metrics"
	"github.com/Dan9191/mortgage-service/internal/repository"
	"github.com/Dan9191/mortgage-service/internal/scheduler"
	"github.com/Dan9191/mortgage-service/internal/service"
	"github.com/Dan9191/mortgage-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg.LogLevel, os.Stdout)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize cache
	var c cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		c = redisCache
	} else {
		logger.Info("REDIS_ADDR not set, using in-memory cache")
	}

	// Initialize layers
	m := metrics.New()
	repo := repository.NewRepository(db)
	cbrClient := cbr.NewCBRClient(cfg, logger)
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(repo, c, cbrClient, sender, m, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Background key rate refresh
	jobs, err := scheduler.New(cfg.RateRefreshCron, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	go jobs.RefreshNow()
	jobs.Start()
	defer jobs.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg, logger, m.Handler()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	logger.Info("Server exited")
}
