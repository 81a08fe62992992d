// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	FrontendURL     string
	SessionTTL      time.Duration
	Agent           AgentConfig
	RateLimit       RateLimitConfig
	ConversationLog ConversationLogConfig
	DevBackend      DevBackendConfig
}

// AgentConfig locates the healthcare backend.
type AgentConfig struct {
	URL      string
	ChatPath string
	// Timeout bounds each backend request. Zero disables it.
	Timeout time.Duration
}

// RateLimitConfig throttles chat and quick-log requests per device.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// DevBackendConfig configures the local stand-in backend.
type DevBackendConfig struct {
	Port   string
	DBPath string
	Seed   int64
	Users  int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		SessionTTL:  getEnvDuration("SESSION_TTL", 60*time.Minute),
		Agent: AgentConfig{
			URL:      getEnv("AGENT_URL", "http://localhost:8000"),
			ChatPath: getEnv("AGENT_CHAT_PATH", "/ag-ui-agent"),
			Timeout:  getEnvDuration("AGENT_TIMEOUT", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 30),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		ConversationLog: ConversationLogConfig{
			Enabled:       getEnvBool("CONVERSATION_LOG_ENABLED", false),
			Dir:           getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			GlobalEnabled: getEnvBool("CONVERSATION_LOG_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("CONVERSATION_LOG_GLOBAL_PATH", "./data/logs/conversations/all.ndjson"),
			QueueSize:     queueSize,
		},
		DevBackend: DevBackendConfig{
			Port:   getEnv("DEV_BACKEND_PORT", "8000"),
			DBPath: getEnv("DEV_BACKEND_DB_PATH", "./data/users.db"),
			Seed:   int64(getEnvInt("DEV_BACKEND_SEED", 42)),
			Users:  getEnvInt("DEV_BACKEND_USERS", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.Agent.URL == "" {
		return errors.New("AGENT_URL cannot be empty")
	}
	if u, err := url.Parse(c.Agent.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("AGENT_URL must be an absolute URL, got %q", c.Agent.URL)
	}
	if c.Agent.Timeout < 0 {
		return errors.New("AGENT_TIMEOUT cannot be negative")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.ConversationLog.Dir == "" {
		return errors.New("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.GlobalPath == "" {
		return errors.New("CONVERSATION_LOG_GLOBAL_PATH cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return errors.New("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	if c.DevBackend.DBPath == "" {
		return errors.New("DEV_BACKEND_DB_PATH cannot be empty")
	}
	if c.DevBackend.Users <= 0 {
		return errors.New("DEV_BACKEND_USERS must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the dashboard API.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
