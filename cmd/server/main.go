package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airlock-stays/service-booking/internal/application"
	"github.com/airlock-stays/service-booking/internal/config"
	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	bookingEvents "github.com/airlock-stays/service-booking/internal/events"
	"github.com/airlock-stays/service-booking/internal/handler"
	"github.com/airlock-stays/service-booking/internal/platform/database"
	"github.com/airlock-stays/service-booking/internal/platform/kafka"
	"github.com/airlock-stays/service-booking/internal/platform/logger"
	"github.com/airlock-stays/service-booking/internal/platform/middleware"
	"github.com/airlock-stays/service-booking/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("availability_policy", string(cfg.AvailabilityPolicy)),
	)

	// Initialize the booking store
	bookingRepo, db := openStore(cfg, log)

	// Initialize Kafka producer
	var publisher application.EventPublisher = application.NopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Warn("no Kafka brokers configured, booking events will not be published")
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		application.NewAvailabilityChecker(cfg.AvailabilityPolicy),
		publisher,
		log,
	)
	sweeper := application.NewStatusSweeper(bookingRepo, application.SystemClock{}, publisher, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the periodic status sweep
	if cfg.SweepInterval > 0 {
		go sweeper.Run(ctx, cfg.SweepInterval)
	} else {
		log.Info("in-process status sweep disabled")
	}

	// Start the sweep command consumer
	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		commandConsumer := bookingEvents.NewSweepCommandConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			sweeper,
			log,
		)
		defer func() { _ = commandConsumer.Close() }()

		go func() {
			log.Info("starting booking command consumer")
			if err := commandConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking command consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))

	// Register health check routes
	var pinger handler.Pinger
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("failed to get sql.DB", zap.Error(err))
		}
		pinger = sqlDB
	}
	handler.NewHealthHandler(pinger, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminBookingHandler(bookingService, sweeper).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Stop the sweeper and the consumer
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

// openStore returns the configured booking repository. db is nil for the
// memory store.
func openStore(cfg *config.ServiceConfig, log *zap.Logger) (bookingDomain.BookingRepository, *gorm.DB) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory booking store, data is lost on restart")
		return repository.NewMemoryBookingRepository(), nil
	}

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	return repository.NewGormBookingRepository(db), db
}
