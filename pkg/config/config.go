// Package config loads the application configuration from YAML with
// defaulting, validation, and environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"agentic_research/pkg/core/llm"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8086"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type MarketDataConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	RatePerSecond  int           `yaml:"rate_per_second" default:"5" validate:"gte=1"`
	NewsBaseURL    string        `yaml:"news_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"oneof=development staging production"`
	Server      ServerConfig     `yaml:"server"`
	MarketData  MarketDataConfig `yaml:"market_data"`
	Generator   llm.Config       `yaml:"generator"`
	Database    DatabaseConfig   `yaml:"database"`
}

// Load reads a YAML config file, applies defaults, overrides secrets from the
// environment, and validates the result. A missing path yields a default
// config so the demo commands run without any file.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Generator.APIKey == "" {
		c.Generator.APIKey = v
	}
	if v := os.Getenv("MARKET_DATA_API_KEY"); v != "" && c.MarketData.APIKey == "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" && c.Database.URL == "" {
		c.Database.URL = v
	}

	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}
