package config

import (
	"fmt"
	"os"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type Config struct {
	ServerPort       string
	LogLevel         string
	JWTSecret        string
	RegisterTokenTTL time.Duration
	LoginTokenTTL    time.Duration
	RedisAddr        string
	DB               DatabaseConfig
}

// Load reads the process configuration from the environment once at startup.
// Components receive it explicitly through their constructors and never read
// the environment at call time.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "3001"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RegisterTokenTTL: getEnvDuration("REGISTER_TOKEN_TTL", time.Hour),
		LoginTokenTTL:    getEnvDuration("LOGIN_TOKEN_TTL", 24*time.Hour),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		DB: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "taskmaster"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (db *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		db.Host, db.User, db.Password, db.DBName, db.Port)
}
