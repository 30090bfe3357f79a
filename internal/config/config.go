package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	CLI     CLIConfig     `yaml:"cli"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
	File   string `yaml:"file"`
}

type StorageConfig struct {
	Backend  string        `yaml:"backend" validate:"oneof=none file sqlite postgres redis"`
	Dir      string        `yaml:"dir"`
	DSN      string        `yaml:"dsn" validate:"required_if=Backend sqlite,required_if=Backend postgres"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0"`
}

type ServerConfig struct {
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"min=1,max=65535"`
	Dev     bool   `yaml:"dev"`
	PIDFile string `yaml:"pid_file"`
	PIDLock bool   `yaml:"pid_lock"`
}

type CLIConfig struct {
	Theme         string `yaml:"theme" validate:"omitempty,oneof=off brown green gray"`
	AutosaveEvery int    `yaml:"autosave_every" validate:"min=0,max=500"`
	HistoryFile   string `yaml:"history_file"`
}

var validate = validator.New()

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "archives",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		CLI: CLIConfig{
			HistoryFile: ".chess_history",
		},
	}
}

// Load reads the YAML file at path (optional), applies CHESS_* environment
// overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("CHESS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := env("CHESS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := env("CHESS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	if v := env("CHESS_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := env("CHESS_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := env("CHESS_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := env("CHESS_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := env("CHESS_STORAGE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Storage.TTL = d
		}
	}

	if v := env("CHESS_API_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := env("CHESS_API_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if v := env("CHESS_DEV"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Dev = b
		}
	}

	if v := env("CHESS_THEME"); v != "" {
		cfg.CLI.Theme = strings.ToLower(v)
	}
	if v := env("CHESS_AUTOSAVE_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CLI.AutosaveEvery = n
		}
	}
}

func env(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}
