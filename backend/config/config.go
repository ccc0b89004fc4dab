package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	JWTSecret   string
	JWTTTL      time.Duration
	ServerPort  string
	CatalogPath string
	LogMode     string
	CORSOrigins string

	// Warnings collects problems that fell back to defaults. They are
	// logged once the logger exists.
	Warnings []string
}

// LoadConfig builds the configuration from the environment. Without
// arguments an optional ".env" is read; explicitly named env files must
// exist.
func LoadConfig(envFiles ...string) (*Config, error) {
	cfg := &Config{}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil {
		cfg.warn("Error loading .env file, using environment variables")
	}

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = getEnv("DB_PASSWORD", "postgres")
	cfg.DBName = getEnv("DB_NAME", "skill_practice")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "data/database.sqlite")
	cfg.JWTSecret = getEnv("JWT_SECRET", "secret")
	cfg.JWTTTL = cfg.getDuration("JWT_TTL", 72*time.Hour)
	cfg.ServerPort = getEnv("SERVER_PORT", "3000")
	cfg.CatalogPath = getEnv("CATALOG_PATH", "")
	cfg.LogMode = getEnv("LOG_MODE", "dev")
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", "http://localhost:5173")
	return cfg, nil
}

func (c *Config) warn(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.warn("%s=%q is not a valid duration, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
