package main

import (
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

// Config holds the worker-only settings on top of the shared config.
type Config struct {
	RedisAddr   string
	Concurrency int
	HealthAddr  string
	Category    config.CategoryConfig
}

func loadConfig(shared *config.Config) *Config {
	cfg := &Config{
		RedisAddr:   shared.Queue.RedisAddr,
		Concurrency: shared.Queue.Concurrency,
		HealthAddr:  utils.GetEnvVariable("WORKER_HEALTH_ADDR", ":9999"),
		Category:    shared.Category,
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Str("audit_cron", cfg.Category.AuditCron).
		Msg("[Config] Worker configuration loaded")

	return cfg
}
