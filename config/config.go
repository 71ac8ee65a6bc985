package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Wedding WeddingConfig
	Guard   GuardConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port    string
	Env     string
	SiteURL string // public base URL; empty means use the request Host
}

// APIConfig points at the wedding backend that owns guests and gifts.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type WeddingConfig struct {
	Date        string // RFC 3339 without offset, interpreted in Timezone
	Timezone    string
	CoupleNames string
}

// GuardConfig configures duplicate-submission protection.
// An empty RedisAddr keeps the guard in process memory.
type GuardConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

// Load returns application configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			Env:     getEnv("ENV", "development"),
			SiteURL: getEnv("SITE_URL", ""),
		},
		API: APIConfig{
			BaseURL: getEnv("WEDDING_API_BASE_URL", "http://localhost:3001"),
			Timeout: getEnvDuration("WEDDING_API_TIMEOUT", 10*time.Second),
		},
		Wedding: WeddingConfig{
			Date:        getEnv("WEDDING_DATE", "2025-09-13T00:00:00"),
			Timezone:    getEnv("WEDDING_TIMEZONE", "America/Sao_Paulo"),
			CoupleNames: getEnv("COUPLE_NAMES", "Vitória & André Luiz"),
		},
		Guard: GuardConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           getEnvDuration("GUARD_TTL", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// WeddingTime parses Wedding.Date in Wedding.Timezone.
// An unknown timezone falls back to UTC.
func (c *Config) WeddingTime() (time.Time, error) {
	loc, err := time.LoadLocation(c.Wedding.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02T15:04:05", c.Wedding.Date, loc)
}

// IsProduction reports whether the server runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
