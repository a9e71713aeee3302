// Command sweeper runs one booking status sweep and exits. It is meant for
// cron-style schedulers; a non-zero exit status means the sweep failed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airlock-stays/service-booking/internal/application"
	"github.com/airlock-stays/service-booking/internal/config"
	"github.com/airlock-stays/service-booking/internal/platform/database"
	"github.com/airlock-stays/service-booking/internal/platform/kafka"
	"github.com/airlock-stays/service-booking/internal/platform/logger"
	"github.com/airlock-stays/service-booking/internal/repository"
	"go.uber.org/zap"
)

const sweepTimeout = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return fmt.Errorf("sweeper requires the postgres store, got %q", cfg.StoreDriver)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "booking-sweeper")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	var publisher application.EventPublisher = application.NopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	sweeper := application.NewStatusSweeper(repository.NewGormBookingRepository(db), application.SystemClock{}, publisher, log)
	result, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}

	log.Info("sweep finished",
		zap.Int64("completed", result.Completed),
		zap.Int64("activated", result.Activated),
		zap.Time("swept_at", result.SweptAt),
	)
	return nil
}
