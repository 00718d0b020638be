package config

import (
	"os"
	"time"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Config is the startup configuration, read once from the environment in
// Load and passed explicitly to the components that need it. There is no
// ambient global state besides the database pool.
type Config struct {
	Port          string
	DatabasePath  string
	MigrationsDir string
	RedisAddr     string

	// SecretKey signs bearer tokens. No default: an empty value is a
	// fatal configuration error at startup.
	SecretKey string
	TokenTTL  time.Duration
}

// Load builds the configuration from environment variables, falling back
// to development defaults for everything except the secret key.
func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "./heroes_service.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./database/migrations"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		TokenTTL:      30 * time.Minute,
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = ttl
		} else {
			logger.Error("Invalid TOKEN_TTL, keeping default", zap.Error(err))
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
