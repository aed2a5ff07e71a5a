package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Import   ImportConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// ImportConfig controls report uploads.
type ImportConfig struct {
	// MaxUploadBytes caps the size of an uploaded report file.
	MaxUploadBytes int64
	// AtomicUpload persists the upload record and both record batches in one
	// SQL transaction. When false each batch commits on its own.
	AtomicUpload bool
	// UploadsPerMinute limits report uploads across all clients. Zero disables the limit.
	UploadsPerMinute int
	// UploadBurst is how many uploads may arrive at once before the limit applies.
	UploadBurst int
	// ActivityCacheTTL is how long a merged activity list is served from memory.
	// Zero disables the cache.
	ActivityCacheTTL time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_SIZE_MB", 20)
	if err != nil {
		return nil, err
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", maxUploadMB)
	}
	atomic, err := getEnvBool("IMPORT_ATOMIC_UPLOAD", true)
	if err != nil {
		return nil, err
	}
	uploadsPerMinute, err := getEnvInt("UPLOAD_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	uploadBurst, err := getEnvInt("UPLOAD_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}
	if uploadsPerMinute < 0 || uploadBurst < 0 {
		return nil, fmt.Errorf("UPLOAD_RATE_PER_MINUTE and UPLOAD_RATE_BURST must not be negative")
	}
	cacheTTL, err := getEnvDuration("ACTIVITY_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/broker_reports.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Import: ImportConfig{
			MaxUploadBytes:   int64(maxUploadMB) << 20,
			AtomicUpload:     atomic,
			UploadsPerMinute: uploadsPerMinute,
			UploadBurst:      uploadBurst,
			ActivityCacheTTL: cacheTTL,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
