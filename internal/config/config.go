// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen string `yaml:"listen"`

	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	// ReviewThreshold flags mapped classes below this confidence for
	// manual review.
	ReviewThreshold float64 `yaml:"review_threshold"`

	// DefaultGridN is the sample density for gap analysis when the caller
	// does not pass one.
	DefaultGridN int `yaml:"default_grid_n"`

	// DefaultQuotaMB is the storage quota for newly created tenants.
	DefaultQuotaMB float64 `yaml:"default_quota_mb"`

	// SeedGlobalBaseline registers a simulated global dataset at startup
	// when none exists.
	SeedGlobalBaseline bool `yaml:"seed_global_baseline"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.ReviewThreshold <= 0 {
		c.ReviewThreshold = 0.5
	}
	if c.DefaultGridN <= 0 {
		c.DefaultGridN = 10
	}
	if c.DefaultQuotaMB <= 0 {
		c.DefaultQuotaMB = 1024
	}
}
