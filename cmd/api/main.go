package main

import (
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional; production uses the real environment
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	env := utils.GetEnvVariable("APP_ENV", "development")
	logger.Init(env, utils.GetEnvVariable("LOG_LEVEL", "info"))

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("env", env).Msg("Starting marketplace API")

	Serve()
}
