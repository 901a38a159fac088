package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Admin server configuration
	ServerAddress string `validate:"required"`
	Environment   string

	// Graph store configuration
	Neo4jURI      string `validate:"required"`
	Neo4jUser     string `validate:"required"`
	Neo4jPassword string `validate:"required"`

	// Feed configuration
	TaxiiBaseURL  string `validate:"required,url"`
	TaxiiUsername string
	TaxiiPassword string

	// Sync behavior
	PollInterval  time.Duration
	FetchTimeout  time.Duration
	WriteTimeout  time.Duration
	FeedRateLimit float64 // page requests per second, 0 = unlimited

	// Logging and features
	LogLevel      string
	EnableTracing bool
	OTLPEndpoint  string
}

// LoadConfig loads configuration from the environment, with an optional
// .env file for local development and an optional YAML overrides file
// named by CONFIG_FILE.
func LoadConfig() (*Config, error) {
	// Best effort; a missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),

		TaxiiBaseURL:  getEnv("TAXII_BASE_URL", ""),
		TaxiiUsername: getEnv("TAXII_USERNAME", ""),
		TaxiiPassword: getEnv("TAXII_PASSWORD", ""),

		PollInterval:  time.Duration(getEnvInt("POLL_INTERVAL", 10)) * time.Second,
		FetchTimeout:  time.Duration(getEnvInt("FETCH_TIMEOUT", 30)) * time.Second,
		WriteTimeout:  time.Duration(getEnvInt("WRITE_TIMEOUT", 30)) * time.Second,
		FeedRateLimit: getEnvFloat("FEED_RATE_LIMIT", 0),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFileOverrides(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// fileOverrides is the YAML overrides schema. Pointer fields so that only
// keys present in the file replace environment values.
type fileOverrides struct {
	ServerAddress       *string  `yaml:"server_address"`
	PollIntervalSeconds *int     `yaml:"poll_interval_seconds"`
	FeedRateLimit       *float64 `yaml:"feed_rate_limit"`
	LogLevel            *string  `yaml:"log_level"`
}

func (c *Config) applyFileOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var o fileOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if o.ServerAddress != nil {
		c.ServerAddress = *o.ServerAddress
	}
	if o.PollIntervalSeconds != nil {
		c.PollInterval = time.Duration(*o.PollIntervalSeconds) * time.Second
	}
	if o.FeedRateLimit != nil {
		c.FeedRateLimit = *o.FeedRateLimit
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
