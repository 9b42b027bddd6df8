package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                      string `yaml:"port"`
	LogLevel                  string `yaml:"logLevel"`
	DatabaseURL               string `yaml:"databaseURL"`
	RedisAddr                 string `yaml:"redisAddr"`
	RedisPassword             string `yaml:"redisPassword"`
	BorrowRateLimitPerMinute  int    `yaml:"borrowRateLimitPerMinute"`
	PaymentRateLimitPerMinute int    `yaml:"paymentRateLimitPerMinute"`
	OverdueSweepSchedule      string `yaml:"overdueSweepSchedule"`
}

// Load reads config from path (defaults to config.yaml), applies environment
// overrides, then defaults.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("LIBRARIAN_PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("LIBRARIAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LIBRARIAN_BORROW_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.BorrowRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("LIBRARIAN_PAYMENT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.PaymentRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("LIBRARIAN_SWEEP_SCHEDULE"); v != "" {
		cfg.OverdueSweepSchedule = strings.TrimSpace(v)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.OverdueSweepSchedule == "" {
		cfg.OverdueSweepSchedule = "0 0 * * *"
	}
	return cfg, nil
}
