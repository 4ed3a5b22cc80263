package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	FaceAPI   FaceAPIConfig
	Gallery   GalleryConfig
	Scheduler SchedulerConfig
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

type JWTConfig struct {
	Secret string
}

type FaceAPIConfig struct {
	BaseURL string        // Base URL of the DeepFace analysis service
	Timeout time.Duration // Per-call timeout; a timed-out call degrades to a soft outcome
}

type GalleryConfig struct {
	ReferenceDir     string  // Directory holding canonical reference images
	DefaultThreshold float64 // Minimum match confidence as a fraction (0-1)
	StatsCacheTTL    time.Duration
}

type SchedulerConfig struct {
	AuditCron string // Cron expression for the aggregate consistency audit
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	threshold, err := strconv.ParseFloat(getEnv("MATCH_THRESHOLD", "0.65"), 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		threshold = 0.65
	}

	faceTimeout, err := time.ParseDuration(getEnv("FACE_API_TIMEOUT", "60s"))
	if err != nil {
		faceTimeout = 60 * time.Second
	}

	statsTTL, err := time.ParseDuration(getEnv("STATS_CACHE_TTL", "30s"))
	if err != nil {
		statsTTL = 30 * time.Second
	}

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
			DBName:   getEnv("DB_NAME", "faceregistry"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		FaceAPI: FaceAPIConfig{
			BaseURL: getEnv("FACE_API_URL", "http://localhost:5000"),
			Timeout: faceTimeout,
		},
		Gallery: GalleryConfig{
			ReferenceDir:     getEnv("GALLERY_REFERENCE_DIR", "gallery"),
			DefaultThreshold: threshold,
			StatsCacheTTL:    statsTTL,
		},
		Scheduler: SchedulerConfig{
			AuditCron: getEnv("AUDIT_CRON", "0 3 * * *"),
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
