package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/basiliclabs/pagoconnect/audit"
	"github.com/basiliclabs/pagoconnect/connector"
	"github.com/basiliclabs/pagoconnect/flow"
	"github.com/basiliclabs/pagoconnect/handler"
	"github.com/basiliclabs/pagoconnect/infra/config"
	"github.com/basiliclabs/pagoconnect/infra/logger"
	"github.com/basiliclabs/pagoconnect/infra/middle"
	"github.com/basiliclabs/pagoconnect/router"
	"github.com/basiliclabs/pagoconnect/store"
)

func init() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using process environment")
	}
	_ = config.App()

	cfg := config.GetAppConfig()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
}

func main() {
	cfg := config.GetAppConfig()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connection failed", err)
	}

	var trail *audit.Trail
	if cfg.AuditEnabled {
		var err error
		trail, err = audit.NewTrail(cfg.AuditDBPath)
		if err != nil {
			logger.Warn("audit trail disabled", logger.LogContext{Fields: map[string]any{"error": err.Error()}})
		} else {
			defer trail.Close()
		}
	}

	var notifier connector.Notifier
	if cfg.ProcessorURL != "" {
		notifier = connector.NewProcessorNotifier(cfg.ProcessorURL, cfg.ProcessorTimeout)
	}

	opts := connector.Options{
		Flows:    flow.NewRegistry(cfg.PublicBaseURL),
		Store:    store.NewRedisStore(redisClient),
		Notifier: notifier,
		Callback: connector.NewPlatformCallback(nil),
	}
	if trail != nil {
		opts.Audit = trail
	}
	conn := connector.New(opts)

	paymentHandler := handler.NewPaymentHandler(conn, config.App().Validator)
	reconcileHandler := handler.NewReconcileHandler(conn)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middle.RequestLoggingMiddleware())
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	router.Routes(r, paymentHandler, reconcileHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", err)
		}
	}()

	logger.Info("connector is running", logger.LogContext{Fields: map[string]any{"port": cfg.Port}})

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("redis close failed", err)
	}
}
