package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"rommsync/romm"
)

const configFile = "config.json"

// Config is the optional on-disk configuration. Flags override anything
// loaded from here.
type Config struct {
	Host            romm.Host     `json:"host"`
	ApiTimeout      time.Duration `json:"api_timeout"`
	DownloadTimeout time.Duration `json:"download_timeout"`
	LogLevel        string        `json:"log_level,omitempty"`
}

func (c Config) ToLoggable() map[string]any {
	return map[string]any{
		"host":             c.Host.ToLoggable(),
		"api_timeout":      c.ApiTimeout,
		"download_timeout": c.DownloadTimeout,
		"log_level":        c.LogLevel,
	}
}

func LoadConfig() (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configFile, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFile, err)
	}

	if config.ApiTimeout == 0 {
		config.ApiTimeout = 3 * time.Minute
	}
	if config.DownloadTimeout == 0 {
		config.DownloadTimeout = 60 * time.Minute
	}

	return &config, nil
}

func SaveConfig(config *Config) error {
	pretty, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configFile, pretty, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	return nil
}
