package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"ticketadmin/internal/config"
	"ticketadmin/internal/database"
	"ticketadmin/internal/repository"
)

// auth_cleanup prunes revoked tokens that have expired anyway.
func main() {
	dsn := pflag.String("dsn", "", "database DSN, overrides DATABASE_URL")
	timeout := pflag.Duration("timeout", time.Minute, "upper bound for the cleanup run")
	pflag.Parse()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("job", "auth_cleanup").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *dsn != "" {
		cfg.DatabaseURL = *dsn
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	removed, err := repository.NewTokenRepository(db).DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("cleanup revoked_tokens failed")
	}

	log.Info().Int64("revoked_tokens", removed).Msg("auth cleanup completed")
}
