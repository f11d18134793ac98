package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL        string
	CacheTTLSeconds int

	// Server
	Port        string
	FrontendURL string

	// Simulation limits
	MaxReflections  int
	SweepWorkers    int
	SweepMaxSamples int
	KeyReflections  int

	// Security
	JWTSecret     string
	JWTTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/billiards?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// Redis
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 3600),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation limits
		MaxReflections:  getEnvInt("MAX_REFLECTIONS", 5000),
		SweepWorkers:    getEnvInt("SWEEP_WORKERS", 8),
		SweepMaxSamples: getEnvInt("SWEEP_MAX_SAMPLES", 5000),
		KeyReflections:  getEnvInt("KEY_REFLECTIONS", 1000),

		// Security
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
