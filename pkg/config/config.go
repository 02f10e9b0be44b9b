package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Dataset   DatasetConfig
	Vision    VisionConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AdminConfig struct {
	Token string // Admin token for the log endpoint
}

type DatasetConfig struct {
	Root           string // Root directory of the per-person dataset folders
	DefaultPreview string // Placeholder shown for people with no images yet
	Quota          int    // Face samples collected per person
}

type VisionConfig struct {
	CascadeFile       string  // Haar cascade XML for frontal face detection
	ModelPath         string  // LBPH model artifact, rewritten on every training run
	DistanceThreshold float64 // LBPH distance below which a match is accepted
	CameraDevice      int     // Video capture device ID
}

type SchedulerConfig struct {
	RetrainEnabled bool
	RetrainCron    string
}

type RateLimitConfig struct {
	Enabled       bool
	MaxRequests   int
	WindowSeconds int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	quota, _ := strconv.Atoi(getEnv("DATASET_QUOTA", "500"))
	threshold, _ := strconv.ParseFloat(getEnv("VISION_DISTANCE_THRESHOLD", "80"), 64)
	cameraDevice, _ := strconv.Atoi(getEnv("VISION_CAMERA_DEVICE", "0"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "100"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Face Registry"),
			Port: getEnv("APP_PORT", "3000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "face_registry"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Dataset: DatasetConfig{
			Root:           getEnv("DATASET_ROOT", "static/datasets"),
			DefaultPreview: getEnv("DATASET_DEFAULT_PREVIEW", "default.jpg"),
			Quota:          quota,
		},
		Vision: VisionConfig{
			CascadeFile:       getEnv("VISION_CASCADE_FILE", "haarcascade_frontalface_default.xml"),
			ModelPath:         getEnv("VISION_MODEL_PATH", "trainer.yml"),
			DistanceThreshold: threshold,
			CameraDevice:      cameraDevice,
		},
		Scheduler: SchedulerConfig{
			RetrainEnabled: getEnv("RETRAIN_ENABLED", "false") == "true",
			RetrainCron:    getEnv("RETRAIN_CRON", "0 3 * * *"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			MaxRequests:   rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
