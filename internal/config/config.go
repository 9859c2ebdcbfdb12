package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

// Config holds all application configuration.
type Config struct {
	Mode    string `yaml:"mode" validate:"oneof=file database"`
	Storage struct {
		StocksFile string `yaml:"stocks_file"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Yahoo struct {
		QuoteURL          string  `yaml:"quote_url" validate:"omitempty,url"`
		ChartURL          string  `yaml:"chart_url" validate:"omitempty,url"`
		UserAgent         string  `yaml:"user_agent"`
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	} `yaml:"yahoo"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
		APIBase  string `yaml:"api_base" validate:"omitempty,url"`
	} `yaml:"telegram"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron" validate:"required"`
	} `yaml:"schedule"`
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	Proxy    string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKWATCH_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("STOCKS_FILE"); v != "" {
		cfg.Storage.StocksFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_UPDATE"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("YAHOO_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Yahoo.RequestsPerSecond = rps
		}
	}

	// Defaults
	if cfg.Mode == "" {
		cfg.Mode = "file"
	}
	if cfg.Storage.StocksFile == "" {
		cfg.Storage.StocksFile = "config/stocks.txt"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/stockwatch.db"
	}
	if cfg.Schedule.UpdateCron == "" {
		cfg.Schedule.UpdateCron = "0 30 22 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NotifyEnabled reports whether Telegram delivery is configured.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Save writes the config back as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
