package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

type DatabaseConfig struct {
	Type     string `yaml:"type"`   // "postgres" or "mysql"
	Driver   string `yaml:"driver"` // postgres only: "pgx" or "pq"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Timezone string `yaml:"timezone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	// Bootstrap admin, created at startup when both are set.
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type LoggingConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// CleanupConfig controls the purge of departed assignments.
type CleanupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type:     "postgres",
			Driver:   "pgx",
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "password",
			Name:     "schedule",
			SSLMode:  "disable",
			Timezone: "UTC",
		},
		Server: ServerConfig{Addr: "0.0.0.0:8080"},
		Auth: AuthConfig{
			JWTSecret:     "supersecret",
			TokenTTLHours: 72,
		},
		Logging: LoggingConfig{
			File:       "./logs/app.log",
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 7,
			MaxAgeDays: 7,
		},
		Cleanup: CleanupConfig{
			Enabled:       false,
			Schedule:      "@daily",
			RetentionDays: 30,
		},
	}
}

// Load reads .env (if present), overlays the YAML file at path (if present)
// and finally applies environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	db := &cfg.Database
	db.Type = getEnv("DB_TYPE", db.Type)
	db.Driver = getEnv("DB_DRIVER", db.Driver)
	db.Host = getEnv("DB_HOST", db.Host)
	db.Port = getEnv("DB_PORT", db.Port)
	db.User = getEnv("DB_USER", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.Name = getEnv("DB_NAME", db.Name)
	db.SSLMode = getEnv("DB_SSLMODE", db.SSLMode)
	db.Timezone = getEnv("DB_TIMEZONE", db.Timezone)

	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AdminEmail = getEnv("ADMIN_EMAIL", cfg.Auth.AdminEmail)
	cfg.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.Auth.AdminPassword)
	cfg.Logging.File = getEnv("LOG_FILE", cfg.Logging.File)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	var err error
	if cfg.Auth.TokenTTLHours, err = getEnvInt("TOKEN_TTL_HOURS", cfg.Auth.TokenTTLHours); err != nil {
		return nil, err
	}
	if cfg.Cleanup.Enabled, err = getEnvBool("CLEANUP_ENABLED", cfg.Cleanup.Enabled); err != nil {
		return nil, err
	}
	cfg.Cleanup.Schedule = getEnv("CLEANUP_SCHEDULE", cfg.Cleanup.Schedule)
	if cfg.Cleanup.RetentionDays, err = getEnvInt("CLEANUP_RETENTION_DAYS", cfg.Cleanup.RetentionDays); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Type {
	case "postgres":
		if c.Database.Driver != "pgx" && c.Database.Driver != "pq" {
			return fmt.Errorf("config: unknown postgres driver %q", c.Database.Driver)
		}
	case "mysql":
	default:
		return fmt.Errorf("config: unknown database type %q", c.Database.Type)
	}
	if c.Auth.TokenTTLHours < 1 {
		return fmt.Errorf("config: token ttl must be at least one hour, got %d", c.Auth.TokenTTLHours)
	}
	if c.Cleanup.RetentionDays < 1 {
		return fmt.Errorf("config: cleanup retention must be at least one day, got %d", c.Cleanup.RetentionDays)
	}
	return nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
