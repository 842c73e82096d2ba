package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rentacar/service-booking/internal/application"
	"github.com/rentacar/service-booking/internal/config"
	"github.com/rentacar/service-booking/internal/events"
	"github.com/rentacar/service-booking/internal/handler"
	"github.com/rentacar/service-booking/internal/repository"
	"github.com/rentacar/service-booking/pkg/auth"
	"github.com/rentacar/service-booking/pkg/database"
	"github.com/rentacar/service-booking/pkg/health"
	"github.com/rentacar/service-booking/pkg/kafka"
	"github.com/rentacar/service-booking/pkg/logger"
	"github.com/rentacar/service-booking/pkg/metrics"
	"github.com/rentacar/service-booking/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking", zap.String("port", cfg.Port))

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// AutoMigrate cannot express the no-overlap exclusion constraint,
	// so everything outside development goes through the SQL migrations.
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.CarModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database auto-migration completed")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute, 7*24*time.Hour)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and application services
	bookingRepo := repository.NewGormBookingRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	bookingService := application.NewBookingService(bookingRepo, kafkaProducer, log)
	carService := application.NewCarService(carRepo, log)

	// Start the fleet event consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	carConsumer := events.NewCarEventConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupPrefix+"service-booking",
		carService,
		bookingService,
		log,
	)
	defer func() { _ = carConsumer.Close() }()

	go func() {
		log.Info("starting car event consumer")
		if err := carConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("car event consumer stopped", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	router.Use(metrics.Middleware())

	metrics.Register()
	router.GET("/metrics", metrics.Handler())

	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
