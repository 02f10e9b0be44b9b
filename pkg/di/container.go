package di

import (
	"context"

	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/application/serviceimpl"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/postgres"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/redis"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
	websocketManager "github.com/nbailey1776/facial-recognition-app/infrastructure/websocket"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/worker"
	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
	"github.com/nbailey1776/facial-recognition-app/pkg/config"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
	"github.com/nbailey1776/facial-recognition-app/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	DatasetStore   *dataset.Store
	Detector       vision.Detector
	Camera         vision.CameraSource
	Annotator      vision.Annotator
	EventScheduler scheduler.EventScheduler

	// Repositories
	PersonRepository repositories.PersonRepository

	// Services
	PersonService      services.PersonService
	CollectionService  services.CollectionService
	TrainingService    services.TrainingService
	RecognitionService services.RecognitionService

	// Workers
	CaptureWorker     *worker.CaptureWorker
	RecognitionWorker *worker.RecognitionWorker
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

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initWorkers(); err != nil {
		return err
	}

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
	// Initialize Database
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

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Initialize Redis
	redisConfig := redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
	c.RedisClient = redis.NewRedisClient(redisConfig)

	// The name cache degrades to DB lookups when Redis is down
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	// Initialize dataset store
	c.DatasetStore = dataset.NewStore(c.Config.Dataset.Root)
	logger.Startup("dataset_store_initialized", "Dataset store initialized", map[string]interface{}{"root": c.Config.Dataset.Root})

	// Initialize face detector
	detector, err := vision.NewCascadeDetector(c.Config.Vision.CascadeFile)
	if err != nil {
		return err
	}
	c.Detector = detector
	logger.Startup("detector_initialized", "Face detector initialized", map[string]interface{}{"cascade": c.Config.Vision.CascadeFile})

	c.Camera = vision.WebcamSource{DeviceID: c.Config.Vision.CameraDevice}
	c.Annotator = vision.FrameAnnotator{}

	return nil
}

func (c *Container) initRepositories() error {
	c.PersonRepository = postgres.NewPersonRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	recognizerFactory := vision.NewLBPHRecognizerFactory()

	c.PersonService = serviceimpl.NewPersonService(
		c.PersonRepository,
		c.DatasetStore,
		c.RedisClient,
		c.Config.Dataset.DefaultPreview,
	)

	c.CollectionService = serviceimpl.NewCollectionService(
		c.PersonRepository,
		c.DatasetStore,
		c.Detector,
		c.Camera,
		c.Annotator,
		websocketManager.Manager,
		c.Config.Dataset.Quota,
	)

	c.TrainingService = serviceimpl.NewTrainingService(
		c.DatasetStore,
		recognizerFactory,
		c.Config.Vision.ModelPath,
	)

	c.RecognitionService = serviceimpl.NewRecognitionService(
		c.PersonService,
		c.Detector,
		c.Camera,
		c.Annotator,
		recognizerFactory,
		websocketManager.Manager,
		c.Config.Vision.ModelPath,
		c.Config.Vision.DistanceThreshold,
	)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initWorkers() error {
	c.CaptureWorker = worker.NewCaptureWorker(c.CollectionService)
	c.RecognitionWorker = worker.NewRecognitionWorker(c.RecognitionService)
	logger.Startup("workers_initialized", "Session workers initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()
	logger.Startup("scheduler_started", "Event scheduler started", nil)

	if c.Config.Scheduler.RetrainEnabled {
		c.scheduleRetrain()
	} else {
		logger.Startup("retrain_disabled", "Scheduled retraining is disabled", nil)
	}

	return nil
}

// scheduleRetrain sets up the periodic model rebuild job
func (c *Container) scheduleRetrain() {
	cronExpr := c.Config.Scheduler.RetrainCron
	if err := scheduler.ValidateCronExpression(cronExpr); err != nil {
		logger.StartupWarn("retrain_cron_invalid", "Skipping retrain job", map[string]interface{}{"cron_expr": cronExpr, "error": err.Error()})
		return
	}

	err := c.EventScheduler.AddJob("model-retrain", cronExpr, func() {
		ctx := context.Background()
		result, err := c.TrainingService.Train(ctx)
		if err != nil {
			logger.SchedulerError("retrain_job_failed", "Scheduled retraining failed", err, nil)
			return
		}
		logger.Scheduler("retrain_job_completed", "Scheduled retraining completed", map[string]interface{}{
			"samples": result.Samples,
			"people":  result.People,
		})
	})
	if err != nil {
		logger.StartupWarn("retrain_job_failed", "Failed to schedule retrain job", map[string]interface{}{"error": err.Error()})
		return
	}

	logger.Startup("retrain_scheduled", "Retrain job scheduled", map[string]interface{}{"cron_expr": cronExpr})
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetHandlerServices returns the services needed by the HTTP handlers
func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		PersonService:      c.PersonService,
		CollectionService:  c.CollectionService,
		TrainingService:    c.TrainingService,
		RecognitionService: c.RecognitionService,
	}
}

// GetHandlerWorkers returns the session workers needed by the HTTP handlers
func (c *Container) GetHandlerWorkers() *handlers.Workers {
	return &handlers.Workers{
		Capture:     c.CaptureWorker,
		Recognition: c.RecognitionWorker,
	}
}

// NewHealthHandler builds the health handler from container components
func (c *Container) NewHealthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler(
		c.DB,
		c.RedisClient,
		c.DatasetStore,
		c.PersonRepository,
		c.Config.Vision.ModelPath,
	)
}

// Cleanup releases all resources held by the container
func (c *Container) Cleanup() error {
	if c.CaptureWorker != nil && c.CaptureWorker.IsRunning() {
		if err := c.CaptureWorker.StopSession(); err != nil {
			logger.StartupWarn("capture_stop_failed", "Failed to stop capture session", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.RecognitionWorker != nil && c.RecognitionWorker.IsRunning() {
		if err := c.RecognitionWorker.Stop(); err != nil {
			logger.StartupWarn("recognition_stop_failed", "Failed to stop recognition session", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.Detector != nil {
		if err := c.Detector.Close(); err != nil {
			logger.StartupWarn("detector_close_failed", "Failed to close detector", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis client", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return nil
}
