package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketplace-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("Marketplace worker starting")

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(cfg.HealthAddr, checker)
	return nil
}

func (h *HealthChecker) checks() []struct {
	name string
	fn   func(ctx context.Context) error
} {
	return []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis", h.c.Redis.Ping},
		{"PostgreSQL", h.c.DB.Ping},
		{"MinIO", h.c.Storage.Ping},
	}
}

// checkAll runs every check with a shared 5s budget.
func (h *HealthChecker) checkAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, check := range h.checks() {
		if err := check.fn(ctx); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}
	return nil
}

func startHealthCheckServer(addr string, checker *HealthChecker) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "marketplace-worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		if err := checker.checkAll(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
