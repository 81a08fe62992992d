package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("PORT", "8080")
	t.Setenv("AGENT_URL", "http://localhost:8000")
	t.Setenv("AGENT_CHAT_PATH", "/ag-ui-agent")
	t.Setenv("AGENT_TIMEOUT", "0s")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Agent.Timeout != 0 {
		t.Errorf("expected no agent timeout by default, got %s", cfg.Agent.Timeout)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h session TTL, got %s", cfg.SessionTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("empty FRONTEND_URL should mean development")
	}
	if got := cfg.AllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Errorf("unexpected origins %v", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AGENT_URL", "https://agent.example.com")
	t.Setenv("AGENT_TIMEOUT", "15s")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("FRONTEND_URL", "https://dash.example.com/")
	t.Setenv("CONVERSATION_LOG_ENABLED", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.Agent.URL != "https://agent.example.com" || cfg.Agent.Timeout != 15*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.RateLimit.RequestsPerWindow != 5 || cfg.RateLimit.WindowDuration != 30*time.Second {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if !cfg.ConversationLog.Enabled {
		t.Error("expected conversation log to be enabled")
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode for a public frontend URL")
	}
	if got := cfg.AllowedOrigins(); got[0] != "https://dash.example.com" {
		t.Errorf("unexpected origins %v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:       "8080",
			SessionTTL: time.Hour,
			Agent:      AgentConfig{URL: "http://localhost:8000"},
			RateLimit:  RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Second},
			ConversationLog: ConversationLogConfig{
				Dir:        "logs",
				GlobalPath: "logs/all.ndjson",
				QueueSize:  1,
			},
			DevBackend: DevBackendConfig{DBPath: "users.db", Users: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"relative agent url", func(c *Config) { c.Agent.URL = "localhost:8000" }, true},
		{"negative timeout", func(c *Config) { c.Agent.Timeout = -time.Second }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerWindow = 0 }, true},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, true},
		{"no users", func(c *Config) { c.DevBackend.Users = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
