package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"faceregistry/application/serviceimpl"
	"faceregistry/domain/repositories"
	"faceregistry/domain/services"
	"faceregistry/infrastructure/faceapi"
	"faceregistry/infrastructure/postgres"
	"faceregistry/infrastructure/redis"
	"faceregistry/infrastructure/storage"
	"faceregistry/pkg/config"
	"faceregistry/pkg/logger"
	"faceregistry/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	ReferenceStore storage.ReferenceStore
	FaceClient     *faceapi.FaceClient
	EventScheduler scheduler.EventScheduler

	// Repositories
	PersonRepository    repositories.PersonRepository
	DetectionRepository repositories.DetectionRepository
	GalleryRepository   repositories.GalleryRepository

	// Services
	ResolveService services.ResolveService
	GalleryService services.GalleryService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}
	if err := c.initInfrastructure(); err != nil {
		return err
	}
	c.initRepositories()
	c.initServices()
	if err := c.initScheduler(); err != nil {
		return err
	}
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	c.RedisClient = redis.NewRedisClient(redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed, stats cache degrades to direct queries", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	refStore, err := storage.NewLocalStore(c.Config.Gallery.ReferenceDir)
	if err != nil {
		return err
	}
	c.ReferenceStore = refStore
	logger.Startup("reference_store_ready", "Reference image store initialized", map[string]interface{}{"dir": c.Config.Gallery.ReferenceDir})

	c.FaceClient = faceapi.NewFaceClient(c.Config.FaceAPI.BaseURL, c.Config.FaceAPI.Timeout)
	if !c.FaceClient.IsAvailable(context.Background()) {
		logger.StartupWarn("face_api_unreachable", "Face analysis service is not reachable", map[string]interface{}{"url": c.Config.FaceAPI.BaseURL})
	} else {
		logger.Startup("face_api_ready", "Face analysis service reachable", nil)
	}

	return nil
}

func (c *Container) initRepositories() {
	c.PersonRepository = postgres.NewPersonRepository(c.DB)
	c.DetectionRepository = postgres.NewDetectionRepository(c.DB)
	c.GalleryRepository = postgres.NewGalleryRepository(c.DB)
}

func (c *Container) initServices() {
	c.ResolveService = serviceimpl.NewResolveService(
		c.PersonRepository,
		c.DetectionRepository,
		c.GalleryRepository,
		c.FaceClient,
		c.ReferenceStore,
		c.RedisClient,
		c.Config.Gallery.DefaultThreshold,
	)

	c.GalleryService = serviceimpl.NewGalleryService(
		c.PersonRepository,
		c.DetectionRepository,
		c.RedisClient,
		c.Config.Gallery.StatsCacheTTL,
	)
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	err := c.EventScheduler.AddJob("gallery_aggregate_audit", c.Config.Scheduler.AuditCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		drifts, err := c.GalleryService.AuditAggregates(ctx)
		if err != nil {
			logger.SchedulerError("audit_failed", "Gallery aggregate audit failed", err, nil)
			return
		}
		logger.Scheduler("audit_complete", "Gallery aggregate audit complete", map[string]interface{}{
			"drift_count": len(drifts),
		})
	})
	if err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	if c.EventScheduler != nil {
		c.EventScheduler.Stop()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return err
		}
	}
	return nil
}
