package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"
)

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig    `json:"server"`
	Database DatabaseConfig  `json:"database"`
	Accounts []AccountConfig `json:"accounts"`
}

type ServerConfig struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// DatabaseConfig selects the identifier-table backend. Driver is one of
// "memory", "postgres", "redis".
type DatabaseConfig struct {
	Driver   string         `json:"driver"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
}

type PostgresConfig struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

// AccountConfig binds one platform account to the protocol instances it
// should be exposed through.
type AccountConfig struct {
	Platform  string           `json:"platform"`
	SelfID    string           `json:"self_id"`
	Protocols []ProtocolConfig `json:"protocols"`
}

// ProtocolConfig is one protocol instance: which wire protocol, which
// transports, and the per-instance knobs the engine core consumes.
type ProtocolConfig struct {
	// Protocol is "onebot11", "onebot12", "milky" or "satori".
	Protocol string `json:"protocol"`

	HTTP        ToggleConfig    `json:"http"`
	WS          ToggleConfig    `json:"ws"`
	WSReverse   []ReverseConfig `json:"ws_reverse,omitempty"`
	Webhooks    []WebhookConfig `json:"webhooks,omitempty"`
	AccessToken string          `json:"access_token,omitempty"`

	HeartbeatInterval Duration        `json:"heartbeat_interval,omitempty"`
	ReconnectInterval Duration        `json:"reconnect_interval,omitempty"`
	HistorySize       int             `json:"history_size,omitempty"`
	Filter            json.RawMessage `json:"filter,omitempty"`
}

type ToggleConfig struct {
	Enabled bool `json:"enabled"`
}

type ReverseConfig struct {
	URL string `json:"url"`
}

type WebhookConfig struct {
	URL    string `json:"url"`
	Secret string `json:"secret,omitempty"`
}

// Duration parses JSON strings like "5s" and bare numbers as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("duration must be a string or number, got %T", raw)
	}
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a JSON config file and substitutes environment variable references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Substitute ${VAR} and ${VAR:default} with environment values.
	resolved := envVarRe.ReplaceAllStringFunc(string(data), func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		name := parts[1]
		defaultVal := parts[2]
		if v := os.Getenv(name); v != "" {
			return v
		}
		return defaultVal
	})

	var cfg Config
	if err := json.Unmarshal([]byte(resolved), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	for i := range c.Accounts {
		for j := range c.Accounts[i].Protocols {
			p := &c.Accounts[i].Protocols[j]
			if p.ReconnectInterval == 0 {
				p.ReconnectInterval = Duration(5 * time.Second)
			}
			if p.HistorySize == 0 {
				p.HistorySize = 256
			}
		}
	}
}
