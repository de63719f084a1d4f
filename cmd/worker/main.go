package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/container"
	"marketplace-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment")
	}
	logger.Init(utils.GetEnvVariable("APP_ENV", "development"), utils.GetEnvVariable("LOG_LEVEL", "info"))

	c, err := container.NewContainer(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	cfg := loadConfig(c.Config)
	handlers := initializeHandlers(c)

	srv := setupAsynqServer(cfg, handlers)
	scheduler := setupScheduler(cfg)

	if err := startServices(c, cfg); err != nil {
		scheduler.Shutdown()
		srv.Shutdown()
		log.Error().Err(err).Msg("[Startup] Health check failed")
		return
	}

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
