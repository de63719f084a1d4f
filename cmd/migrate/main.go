package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/migrations"
	"marketplace-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[MIGRATE] Invalid database config")
	}

	db := database.NewPostgresDB(dbCfg)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("[MIGRATE] Database connection failed")
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db.Pool, migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Int("applied", applied).Msg("[MIGRATE] Failed")
	}

	if applied == 0 {
		log.Info().Msg("[MIGRATE] Database is up to date")
		return
	}
	log.Info().Int("applied", applied).Msg("[MIGRATE] Done")
}
