// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env      string
	Port     string
	LogLevel string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MigrationsPath string

	// Books
	Timezone            string
	DefaultCurrency     string
	DefaultReportPeriod string
	IncomeColor         string
	SpendingColor       string

	// Observability
	MetricsEnabled bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := FromEnv()
	appConfig = config
	return config, nil
}

// FromEnv builds a Config from the current process environment without reading .env.
func FromEnv() *Config {
	return &Config{
		// Server
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		// Database
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "cashbook"),
		DBPassword:     getEnv("DB_PASSWORD", "cashbook"),
		DBName:         getEnv("DB_NAME", "cashbook"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "cashbook.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// Books
		Timezone:            getEnv("TIMEZONE", "UTC"),
		DefaultCurrency:     strings.ToUpper(getEnv("DEFAULT_CURRENCY", "IDR")),
		DefaultReportPeriod: getEnv("DEFAULT_REPORT_PERIOD", "monthly"),
		IncomeColor:         getEnv("INCOME_COLOR", "#00aabb"),
		SpendingColor:       getEnv("SPENDING_COLOR", "#bbaa00"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
