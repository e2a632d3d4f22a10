package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pcenrich/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Workers  int
}

// DatabaseConfig holds database connection settings. Persistence is
// optional; an empty URL disables the run store.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds default data file paths for the CLI
type DataConfig struct {
	MatrixFile  string
	GeneSetFile string
}

// Load reads configuration from a .env file (when present) and the
// environment, then validates it.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			MatrixFile:  os.Getenv("MATRIX_FILE"),
			GeneSetFile: os.Getenv("GENE_SET_FILE"),
		},
		Workers: getEnvIntOrDefault("WORKERS", 4),
	}

	if config.Workers < 1 {
		return nil, core.NewConfigurationError("WORKERS", "must be at least 1")
	}
	return config, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
