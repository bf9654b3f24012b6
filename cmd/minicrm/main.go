// Command minicrm runs the CRM HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/minicrm-io/minicrm/pkg/api"
	"github.com/minicrm-io/minicrm/pkg/config"
	"github.com/minicrm-io/minicrm/pkg/observability"
	"github.com/minicrm-io/minicrm/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// A missing .env file is fine; environment variables may come from
	// anywhere.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(db, cfg.Database.Driver); err != nil {
		return err
	}
	logger.WithField("driver", cfg.Database.Driver).Info("database ready")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		logger.WithField("addr", cfg.Redis.Addr).Info("redis connected")
	}

	server, err := api.NewServer(cfg, logger, db, redisClient)
	if err != nil {
		return err
	}

	userStore, custStore, taskStore := server.Stores()
	stats := observability.NewStatsCollector(server.Metrics(), logger, userStore, custStore, taskStore)
	if err := stats.Start(cfg.Observability.StatsSchedule); err != nil {
		return err
	}
	defer stats.Stop()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
