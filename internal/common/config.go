package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docparse/convertd/constants"
)

// Config holds all application configuration. It is read once at startup
// and passed by reference; nothing mutates it after LoadConfig.
type Config struct {
	Server  ServerConfig
	Convert ConvertConfig
	Email   EmailConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// ConvertConfig holds PDF conversion configuration.
type ConvertConfig struct {
	// TempDir is where scoped temp copies are created; empty means os.TempDir.
	TempDir string
	// StrategyOrder is the fallback order used for "auto".
	StrategyOrder []string
	// PolicyFile optionally points at a JSON policy overriding defaults.
	PolicyFile string
}

// EmailConfig holds email validation configuration.
type EmailConfig struct {
	DisposableDomains []string
	MXTimeout         time.Duration
}

// DefaultDisposableDomains are the built-in disposable email providers.
var DefaultDisposableDomains = []string{
	"10minutemail.com", "tempmail.org", "guerrillamail.com",
	"mailinator.com", "yopmail.com", "temp-mail.org",
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_MB", 32) << 20,
			AllowedOrigins:  getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Convert: ConvertConfig{
			TempDir:       getEnv("CONVERT_TEMP_DIR", ""),
			StrategyOrder: getEnvAsSlice("STRATEGY_ORDER", constants.DefaultStrategyOrder),
			PolicyFile:    getEnv("POLICY_FILE", ""),
		},
		Email: EmailConfig{
			DisposableDomains: getEnvAsSlice("DISPOSABLE_DOMAINS", DefaultDisposableDomains),
			MXTimeout:         getEnvAsDuration("MX_TIMEOUT", 5*time.Second),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	for _, name := range c.Convert.StrategyOrder {
		if _, ok := constants.CanonicalStrategy(name); !ok {
			return NewAppError("CONFIG_ERROR",
				fmt.Sprintf("unknown strategy %q in STRATEGY_ORDER", name), ErrInvalidInput)
		}
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
