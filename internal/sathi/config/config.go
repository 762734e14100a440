package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the client configuration.
type Config struct {
	BaseURL        string `toml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"` // per-request bound, 0 = default
	Debug          bool   `toml:"debug" mapstructure:"debug"`
	LogFile        string `toml:"log_file" mapstructure:"log_file"` // debug log destination (empty = state dir)
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://sikshasathi.nebd.in",
		TimeoutSeconds: 30,
		Debug:          false,
		LogFile:        "",
	}
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from viper.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	return config, nil
}
