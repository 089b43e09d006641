package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Collaborators CollaboratorConfig
	Breaker       BreakerConfig
	Cache         CacheConfig
	Throttle      ThrottleConfig
	Cleanup       CleanupConfig
	SentryDSN     string
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// Base URLs and shared client timeout for the downstream services this
// service talks to. Each has a documented default for local development.
type CollaboratorConfig struct {
	ExpensesURL      string
	AnalyticsURL     string
	NotificationsURL string
	Timeout          time.Duration
}

type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type CleanupConfig struct {
	QueueSize int
	Timeout   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "users"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		},
		Collaborators: CollaboratorConfig{
			ExpensesURL:      getEnv("EXPENSES_SERVICE_URL", "http://localhost:8081"),
			AnalyticsURL:     getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8082"),
			NotificationsURL: getEnv("NOTIFICATIONS_SERVICE_URL", "http://localhost:8083"),
			Timeout:          getEnvDuration("COLLABORATOR_TIMEOUT_MS", 5000*time.Millisecond),
		},
		Breaker: BreakerConfig{
			FailureThreshold: getEnvInt("BREAKER_FAILURE_THRESHOLD", 3),
			Cooldown:         getEnvDuration("BREAKER_COOLDOWN_MS", 30*time.Second),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", true),
			TTL:     getEnvDuration("CACHE_TTL_MS", 60*time.Second),
		},
		Throttle: ThrottleConfig{
			MaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
			Window:      getEnvDuration("LOGIN_WINDOW_MS", 60*time.Second),
		},
		Cleanup: CleanupConfig{
			QueueSize: getEnvInt("CLEANUP_QUEUE_SIZE", 128),
			Timeout:   getEnvDuration("CLEANUP_TIMEOUT_MS", 10*time.Second),
		},
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Builds the postgres DSN from the individual settings
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Duration env vars are expressed in milliseconds
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	millis, err := strconv.Atoi(value)
	if err != nil || millis <= 0 {
		return fallback
	}
	return time.Duration(millis) * time.Millisecond
}
