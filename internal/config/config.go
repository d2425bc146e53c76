package config

import (
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port string

	DBDatabase string
	DBPassword string
	DBUsername string
	DBPort     string
	DBHost     string
	DBSchema   string

	TossBaseURL   string
	TossSecretKey string
	TossTimeout   time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	UploadDir string

	ReconcileInterval time.Duration
	StuckThreshold    time.Duration
}

func Load() Config {
	return Config{
		Port: getEnv("KABB_PORT", "8080"),

		DBDatabase: getEnv("KABB_DB_DATABASE", "kabb"),
		DBPassword: getEnv("KABB_DB_PASSWORD", "postgres"),
		DBUsername: getEnv("KABB_DB_USERNAME", "postgres"),
		DBPort:     getEnv("KABB_DB_PORT", "5432"),
		DBHost:     getEnv("KABB_DB_HOST", "localhost"),
		DBSchema:   getEnv("KABB_DB_SCHEMA", "public"),

		TossBaseURL:   getEnv("TOSS_BASE_URL", "https://api.tosspayments.com"),
		TossSecretKey: os.Getenv("TOSS_SECRET_KEY"),
		TossTimeout:   getDuration("TOSS_TIMEOUT", 10*time.Second),

		JWTSecret: getEnv("KABB_JWT_SECRET", "dev-secret"),
		JWTTTL:    getDuration("KABB_JWT_TTL", 24*time.Hour),

		UploadDir: getEnv("KABB_UPLOAD_DIR", "./uploads/licenses"),

		ReconcileInterval: getDuration("KABB_RECONCILE_INTERVAL", time.Minute),
		StuckThreshold:    getDuration("KABB_STUCK_THRESHOLD", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
