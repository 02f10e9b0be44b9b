package handlers

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.RedisClient
	store       *dataset.Store
	personRepo  repositories.PersonRepository
	modelPath   string
}

func NewHealthHandler(
	db *gorm.DB,
	redisClient *redis.RedisClient,
	store *dataset.Store,
	personRepo repositories.PersonRepository,
	modelPath string,
) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		store:       store,
		personRepo:  personRepo,
		modelPath:   modelPath,
	}
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// DetailedHealthResponse represents detailed health check response
type DetailedHealthResponse struct {
	Status     string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
	Metrics    *HealthMetrics             `json:"metrics,omitempty"`
}

// HealthMetrics contains registry and dataset counters
type HealthMetrics struct {
	People         int64 `json:"people"`
	DatasetFolders int   `json:"dataset_folders"`
	DatasetImages  int   `json:"dataset_images"`
	ModelTrained   bool  `json:"model_trained"`
}

// DetailedHealth returns the health of every system component
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := DetailedHealthResponse{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	allHealthy := true
	hasCriticalFailure := false

	dbHealth := h.checkDatabase(ctx)
	response.Components["database"] = dbHealth
	if dbHealth.Status != "ok" {
		hasCriticalFailure = true
	}

	redisHealth := h.checkRedis(ctx)
	response.Components["redis"] = redisHealth
	if redisHealth.Status == "error" {
		allHealthy = false
	}

	modelHealth := h.checkModel()
	response.Components["model"] = modelHealth
	if modelHealth.Status != "ok" {
		allHealthy = false
	}

	if dbHealth.Status == "ok" {
		response.Metrics = h.getMetrics(ctx, modelHealth.Status == "ok")
	}

	switch {
	case hasCriticalFailure:
		response.Status = "unhealthy"
	case !allHealthy:
		response.Status = "degraded"
	default:
		response.Status = "healthy"
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	if h.db == nil {
		return ComponentHealth{Status: "error", Message: "Database not configured"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: "Failed to get database connection: " + err.Error()}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Database ping failed: " + err.Error()}
	}

	return ComponentHealth{
		Status:  "ok",
		Message: "Connected",
		Latency: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()

	if h.redisClient == nil {
		return ComponentHealth{Status: "unavailable", Message: "Redis not configured"}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Redis ping failed: " + err.Error()}
	}

	return ComponentHealth{
		Status:  "ok",
		Message: "Connected",
		Latency: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkModel() ComponentHealth {
	info, err := os.Stat(h.modelPath)
	if err != nil {
		return ComponentHealth{Status: "unavailable", Message: "Model not trained yet"}
	}
	if info.Size() == 0 {
		return ComponentHealth{Status: "error", Message: "Model file is empty"}
	}
	return ComponentHealth{Status: "ok", Message: "Model artifact present"}
}

func (h *HealthHandler) getMetrics(ctx context.Context, modelTrained bool) *HealthMetrics {
	metrics := &HealthMetrics{ModelTrained: modelTrained}

	if count, err := h.personRepo.Count(ctx); err == nil {
		metrics.People = count
	}
	if folders, images, err := h.store.Stats(); err == nil {
		metrics.DatasetFolders = folders
		metrics.DatasetImages = images
	}

	return metrics
}
