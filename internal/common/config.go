package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds relational-store configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// LLMConfig holds completion-service configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
	Temperature float32
	Timeout     time.Duration
}

// IngestConfig holds file/byte-source configuration
type IngestConfig struct {
	TmpDir          string
	DownloadTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "pgx"),
			DSN:    getEnv("DB_URL", ""),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			TextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
			VisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash-001"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Ingest: IngestConfig{
			TmpDir:          getEnv("INGEST_TMP_DIR", os.TempDir()),
			DownloadTimeout: getEnvAsDuration("INGEST_DOWNLOAD_TIMEOUT", 60*time.Second),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
