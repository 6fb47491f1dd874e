package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// Modes select the default API base URL when none is configured.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

const devAPIBaseURL = "http://localhost:8080/api/v1"

// FileConfig represents client configuration loaded from YAML.
type FileConfig struct {
	Mode           string `yaml:"mode"`
	APIBaseURL     string `yaml:"apiBaseURL"`
	PublicWebURL   string `yaml:"publicWebURL"`
	LogLevel       string `yaml:"logLevel"`
	DataDir        string `yaml:"dataDir"`
	StateBackend   string `yaml:"stateBackend"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	RequestTimeout string `yaml:"requestTimeout"`
}

// Load reads config from path (defaults to config.yaml). A missing file is not
// an error: the client runs fine on development defaults.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if v := os.Getenv("WRITOOK_MODE"); v != "" {
		cfg.Mode = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_PUBLIC_WEB_URL"); v != "" {
		cfg.PublicWebURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_DATA_DIR"); v != "" {
		cfg.DataDir = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_STATE_BACKEND"); v != "" {
		cfg.StateBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("WRITOOK_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("WRITOOK_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Mode == "" {
		cfg.Mode = ModeDevelopment
	}
	if cfg.APIBaseURL == "" && cfg.Mode == ModeDevelopment {
		cfg.APIBaseURL = devAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.PublicWebURL = strings.TrimRight(cfg.PublicWebURL, "/")
	if cfg.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, ".writook")
		} else {
			cfg.DataDir = ".writook"
		}
	}
	if cfg.StateBackend == "" {
		cfg.StateBackend = "sqlite"
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Mode != ModeDevelopment && cfg.Mode != ModeProduction {
		return fmt.Errorf("config: unknown mode %q", cfg.Mode)
	}
	if cfg.APIBaseURL == "" {
		return errors.New("config: apiBaseURL is required in production mode (set in config.yaml or WRITOOK_API_BASE_URL)")
	}
	switch cfg.StateBackend {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("config: unknown stateBackend %q (file, sqlite, redis or memory)", cfg.StateBackend)
	}
	if cfg.StateBackend == "redis" && strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for the redis state backend")
	}
	return nil
}

// ParseRequestTimeout parses the optional per-request timeout, defaulting to 10s.
func ParseRequestTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 10 * time.Second, nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	if dur <= 0 {
		return 0, errors.New("requestTimeout must be positive")
	}
	return dur, nil
}
