// Package config loads the stepwise configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "stepwise.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the root of stepwise.yaml.
type Config struct {
	Profile  string         `yaml:"profile" validate:"required,excludesall=/\\"`
	Playback PlaybackConfig `yaml:"playback"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// PlaybackConfig tunes the autoplay engine.
type PlaybackConfig struct {
	BaseInterval time.Duration `yaml:"base_interval" validate:"gt=0"`
	DefaultSpeed float64       `yaml:"default_speed" validate:"gt=0"`
	Autoplay     bool          `yaml:"autoplay"`
}

// StoreConfig selects where learner progress is kept.
type StoreConfig struct {
	Backend string      `yaml:"backend" validate:"oneof=memory file redis"`
	Path    string      `yaml:"path" validate:"required_if=Backend file"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis progress store.
type RedisConfig struct {
	Addr     string        `yaml:"addr" validate:"required"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// ServerConfig configures the HTTP and MCP servers.
type ServerConfig struct {
	Port        int `yaml:"port" validate:"gte=1,lte=65535"`
	MCPPort     int `yaml:"mcp_port" validate:"gte=1,lte=65535"`
	MaxSessions int `yaml:"max_sessions" validate:"gte=0"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"loglevel"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Profile: "default",
		Playback: PlaybackConfig{
			BaseInterval: domain.BaseInterval,
			DefaultSpeed: 1,
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    ".stepwise/progress",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "stepwise:progress:",
			},
		},
		Server: ServerConfig{
			Port:        8080,
			MCPPort:     8081,
			MaxSessions: 256,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
