package main

import (
	"context"
	"net/http"
	"time"

	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	// uploads are capped at 5MB by the image processor
	router.MaxMultipartMemory = 8 << 20

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCategoryRoutes(v1, c)
	}

	return router
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.CategoryHandler

	categories := v1.Group("/categories")
	categories.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.GET("/tree", h.GetTree)

		categories.GET("/:id", h.GetByID)
		categories.PUT("/:id", h.Update)
		categories.DELETE("/:id", h.Delete)

		categories.GET("/:id/subcategories", h.GetSubcategories)
		categories.GET("/:id/path", h.GetPath)
		categories.GET("/:id/descendants", h.GetDescendants)
		categories.PATCH("/:id/parent", h.Move)
		categories.POST("/:id/media/:kind", h.UploadMedia)
	}
}

// healthCheckHandler reports database and redis status.
// Only the database is required for 200; redis is a cache.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		}
		if appCtx.Config != nil {
			health["version"] = appCtx.Config.App.Version
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = "error: " + err.Error()
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
