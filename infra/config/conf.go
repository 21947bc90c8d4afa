package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Config struct {
	Validator *validator.Validate
	SecretKey string
}

// AppConfig represents the application configuration
type AppConfig struct {
	Port             string
	AppEnv           string
	LogLevel         string
	LogFormat        string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ProcessorURL     string
	ProcessorTimeout time.Duration
	PublicBaseURL    string
	AuditDBPath      string
	AuditEnabled     bool
}

var (
	instance          *Config
	appConfigInstance *AppConfig
)

func App() *Config {
	if instance == nil {
		instance = &Config{
			Validator: validator.New(),
			// the secret key changes every time the application is restarted
			SecretKey: uuid.New().String(),
		}
	}
	return instance
}

// GetAppConfig returns the application configuration
func GetAppConfig() *AppConfig {
	if appConfigInstance == nil {
		appConfigInstance = &AppConfig{
			Port:             GetEnv("APP_PORT", "9090"),
			AppEnv:           GetEnv("APP_ENV", "development"),
			LogLevel:         GetEnv("LOG_LEVEL", "info"),
			LogFormat:        GetEnv("LOG_FORMAT", "json"),
			RedisAddr:        GetEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:    GetEnv("REDIS_PASSWORD", ""),
			RedisDB:          GetIntEnv("REDIS_DB", 0),
			ProcessorURL:     GetEnv("PROCESSOR_URL", ""),
			ProcessorTimeout: time.Duration(GetIntEnv("PROCESSOR_TIMEOUT_SECONDS", 10)) * time.Second,
			PublicBaseURL:    GetEnv("PUBLIC_BASE_URL", "http://localhost:9090"),
			AuditDBPath:      GetEnv("AUDIT_DB_PATH", "data/audit.db"),
			AuditEnabled:     GetBoolEnv("AUDIT_ENABLED", true),
		}
	}
	return appConfigInstance
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
