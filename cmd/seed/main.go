package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"ticketadmin/internal/config"
	"ticketadmin/internal/database"
	"ticketadmin/internal/seed"
)

func main() {
	catalogPath := pflag.String("catalog", "catalog.yaml", "path to the role and permission catalog")
	dsn := pflag.String("dsn", "", "database DSN, overrides DATABASE_URL")
	reset := pflag.Bool("reset", false, "wipe roles and permissions before seeding")
	adminPassword := pflag.String("admin-password", "", "password for the bootstrap admin, overrides the catalog")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	log.Logger = logger
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *dsn != "" {
		cfg.DatabaseURL = *dsn
	}

	catalog, err := seed.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("catalog", *catalogPath).Msg("invalid catalog")
	}
	if *adminPassword != "" && catalog.Admin != nil {
		catalog.Admin.Password = *adminPassword
	}
	if cfg.IsProd() && catalog.Admin != nil && *adminPassword == "" {
		log.Fatal().Msg("in prod/release the bootstrap admin password must be passed with --admin-password")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}

	log.Info().Msg("running AutoMigrate")
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	if _, err := seed.Apply(ctx, db, catalog, *reset); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding completed")
}
