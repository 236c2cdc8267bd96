package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Jira tracker configuration
	Jira JiraConfig

	// Reporting configuration
	Report ReportConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// JiraConfig holds the tracker connection and query settings
type JiraConfig struct {
	BaseURL    string
	UserEmail  string
	APIToken   string
	ProjectKey string
	SinceDate  string // go-live date; only tickets created on/after it count
	MaxResults int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// ReportConfig holds the share calculation settings
type ReportConfig struct {
	Categories  []string // ordered; the first is the primary category
	GoalPercent float64
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongWait        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("SERVER_ALLOWED_ORIGINS", []string{"*"}),
		},
		Jira: JiraConfig{
			BaseURL:    os.Getenv("JIRA_BASE_URL"),
			UserEmail:  os.Getenv("JIRA_USER_EMAIL"),
			APIToken:   os.Getenv("JIRA_API_TOKEN"),
			ProjectKey: getEnvOrDefault("JIRA_PROJECT_KEY", "TKTS"),
			SinceDate:  getEnvOrDefault("REPORT_SINCE_DATE", "2026-02-01"),
			MaxResults: getIntOrDefault("JIRA_MAX_RESULTS", 1000),
			Timeout:    getDurationOrDefault("JIRA_TIMEOUT", 30*time.Second),
			CacheTTL:   getDurationOrDefault("SNAPSHOT_CACHE_TTL", time.Hour),
		},
		Report: ReportConfig{
			Categories:  getStringSliceOrDefault("REPORT_CATEGORIES", []string{"Display", "Video", "Pixel", "Bespoke"}),
			GoalPercent: getFloatOrDefault("REPORT_GOAL_PERCENT", 20),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
			PingInterval:    getDurationOrDefault("WS_PING_INTERVAL", 54*time.Second),
			PongWait:        getDurationOrDefault("WS_PONG_WAIT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "adops-tkts-tracker"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration. Tracker credentials are checked here
// so a misconfigured deployment fails before any network call.
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Jira.BaseURL == "" {
		errs = append(errs, "JIRA_BASE_URL is required")
	}
	if c.Jira.UserEmail == "" {
		errs = append(errs, "JIRA_USER_EMAIL is required")
	}
	if c.Jira.APIToken == "" {
		errs = append(errs, "JIRA_API_TOKEN is required")
	}

	// Logical validations
	if c.Jira.SinceDate != "" {
		if _, err := time.Parse("2006-01-02", c.Jira.SinceDate); err != nil {
			errs = append(errs, "REPORT_SINCE_DATE must be a valid YYYY-MM-DD date")
		}
	}
	if c.Jira.MaxResults <= 0 {
		errs = append(errs, "JIRA_MAX_RESULTS must be positive")
	}
	if len(c.Report.Categories) == 0 {
		errs = append(errs, "REPORT_CATEGORIES must list at least one category")
	}
	if c.Report.GoalPercent < 0 || c.Report.GoalPercent > 100 {
		errs = append(errs, "REPORT_GOAL_PERCENT must be between 0 and 100")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Jira: %s project=%s since=%s, Token: [REDACTED], Environment: %s}",
		c.Server.Port,
		c.Jira.BaseURL,
		c.Jira.ProjectKey,
		c.Jira.SinceDate,
		c.App.Environment,
	)
}
