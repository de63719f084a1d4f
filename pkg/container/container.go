package container

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/internal/config"
	categoryHandler "marketplace-backend/internal/domains/category/handler"
	categoryRepo "marketplace-backend/internal/domains/category/repository"
	categoryService "marketplace-backend/internal/domains/category/service"
	infraCache "marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/internal/infrastructure/queue"
	"marketplace-backend/internal/infrastructure/storage"
	"marketplace-backend/pkg/cache"
	"marketplace-backend/pkg/jwt"
	"marketplace-backend/pkg/logger"

	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the api and worker binaries.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisCache
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	Images      *storage.ImageProcessor
	QueueClient *queue.Client
	JWTManager  *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CategoryRepo categoryRepo.Repository
	CategoryTx   categoryRepo.TxRunner

	// ========================================
	// SERVICE LAYER
	// ========================================
	CategoryService categoryService.CategoryService
	MediaService    categoryService.MediaService

	// ========================================
	// HANDLER LAYER
	// ========================================
	CategoryHandler *categoryHandler.CategoryHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
// Anything built before a failure is released before returning.
func NewContainer(ctx context.Context) (c *Container, err error) {
	log.Info().Msg("Initializing DI container")

	built := &Container{}
	defer func() {
		if err != nil {
			built.Cleanup()
		}
	}()
	c = built

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Redis: category reads run uncached when it is down
	c.Redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Cache = connectCache(ctx, c.Redis)

	// MinIO
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Images = storage.NewImageProcessor()

	c.QueueClient = queue.NewClient(cfg.Queue.RedisAddr)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	return nil
}

func (c *Container) initRepositories() {
	c.CategoryRepo = categoryRepo.NewPostgresRepository(c.DB.Pool)
	c.CategoryTx = categoryRepo.NewTxRunner(c.DB.Pool)
}

func (c *Container) initServices() {
	c.CategoryService = categoryService.NewCategoryService(
		c.CategoryRepo,
		c.CategoryTx,
		c.Cache,
		categoryService.Config{
			MaxDepth: c.Config.Category.MaxDepth,
			CacheTTL: c.Config.Category.CacheTTL,
		},
	)
	c.MediaService = categoryService.NewMediaService(
		c.CategoryTx,
		c.Storage,
		c.Images,
		c.QueueClient,
		c.Cache,
	)
}

func (c *Container) initHandlers() {
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService, c.MediaService)
}

// Cleanup releases every resource that was opened. Safe on a partial container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	log.Info().Msg("Container cleanup completed")
}

const cacheConnectTimeout = 3 * time.Second

// connectCache returns rc when it answers a ping, otherwise nil.
func connectCache(ctx context.Context, rc *infraCache.RedisCache) cache.Cache {
	ctx, cancel := context.WithTimeout(ctx, cacheConnectTimeout)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed (non-critical), category reads are uncached", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return rc
}
