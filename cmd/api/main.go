package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"ticketadmin/internal/audit"
	"ticketadmin/internal/config"
	"ticketadmin/internal/database"
	"ticketadmin/internal/metrics"
	"ticketadmin/internal/middleware"
	jwtsvc "ticketadmin/internal/pkg/jwt"
	"ticketadmin/internal/server"
)

func main() {
	addr := pflag.String("addr", "", "listen address, overrides HTTP_ADDR")
	dsn := pflag.String("dsn", "", "database DSN, overrides DATABASE_URL")
	migrate := pflag.Bool("migrate", true, "run schema migrations on boot")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *dsn != "" {
		cfg.DatabaseURL = *dsn
	}

	logger := setupLogger(cfg)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if *migrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	sinks := []audit.Sink{audit.NewLogSink(logger)}
	var kafkaSink *audit.KafkaSink
	if len(cfg.AuditBrokers) > 0 {
		kafkaSink = audit.NewKafkaSink(audit.NewKafkaWriter(cfg.AuditBrokers, cfg.AuditTopic))
		sinks = append(sinks, kafkaSink)
		logger.Info().Strs("brokers", cfg.AuditBrokers).Str("topic", cfg.AuditTopic).Msg("kafka audit sink enabled")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	limiter := middleware.NewIPRateLimiter(cfg.LoginRate, cfg.LoginBurst)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Options{
		DB:          db,
		JWT:         jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Logger:      logger,
		Audit:       audit.NewLogger(sinks...),
		Metrics:     m,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepLimiter(ctx, limiter)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			logger.Error().Err(err).Msg("kafka writer close")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if cfg.AppEnv == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	logger = logger.With().Timestamp().Str("service", "ticketadmin").Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}

func sweepLimiter(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
