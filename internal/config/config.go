// Package config loads client configuration from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the client.
type Config struct {
	// APIBaseURL is the root for every relative request path.
	APIBaseURL string `mapstructure:"api_base_url"`
	// RequestTimeout bounds each outbound HTTP call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	// StateDir holds credentials and board logs.
	StateDir string `mapstructure:"state_dir"`
}

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
	defaultLevel   = "info"
)

// Load reads configuration with the following precedence: env vars
// (TODOTERM_* and the bare API_BASE_URL), then an optional
// $XDG_CONFIG_HOME/todoterm/config.yaml, then defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", defaultBaseURL)
	v.SetDefault("request_timeout", defaultTimeout)
	v.SetDefault("log_level", defaultLevel)
	v.SetDefault("state_dir", defaultStateDir())

	v.SetEnvPrefix("TODOTERM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The service's historical env name, honored without the prefix.
	if base := strings.TrimSpace(os.Getenv("API_BASE_URL")); base != "" {
		v.Set("api_base_url", base)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "todoterm"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	return &cfg, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todoterm"
	}
	return filepath.Join(home, ".todoterm")
}
