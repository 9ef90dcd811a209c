package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration loaded from the environment
type Config struct {
	Env  string
	Port int
	// AutoMigrate applies pending migrations at startup. Development
	// convenience only; it is refused in production, where cmd/migrate
	// is the migration path.
	AutoMigrate bool

	Database DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Nylas    NylasConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type NylasConfig struct {
	APIKey        string
	BaseURL       string
	WebhookSecret string
	// WebhookBaseURL is the public URL this service is reachable at.
	// Webhook registration is skipped when it is empty.
	WebhookBaseURL string
}

// Enabled reports whether notetaker integration is configured
func (n NylasConfig) Enabled() bool {
	return n.APIKey != ""
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether transcript archiving is configured
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

// Load reads configuration from .env (if present) and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("PORT", 8080),
		AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		Database: LoadDatabase(),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Nylas: NylasConfig{
			APIKey:         getEnv("NYLAS_API_KEY", ""),
			BaseURL:        getEnv("NYLAS_API_URL", "https://api.us.nylas.com/v3"),
			WebhookSecret:  getEnv("NYLAS_WEBHOOK_SECRET", ""),
			WebhookBaseURL: getEnv("WEBHOOK_BASE_URL", ""),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "meeting-transcripts"),
			UseSSL:    getEnvAsBool("STORAGE_USE_SSL", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads only the database configuration, for tooling that
// does not need the full service config.
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Name:     getEnv("DB_NAME", "meeting_notes"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
