// Package config loads application configuration from file, environment and
// defaults, in that order of increasing precedence for env overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// Mode is "live" or "stub". Empty selects live when an API key is
	// configured and stub otherwise.
	Mode        string        `mapstructure:"mode"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryWait   time.Duration `mapstructure:"retry_wait"`
}

type Progress struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type Config struct {
	ListenAddr string   `mapstructure:"listen_addr"`
	DBPath     string   `mapstructure:"db_path"`
	LogLevel   string   `mapstructure:"log_level"`
	Gateway    Gateway  `mapstructure:"gateway"`
	Progress   Progress `mapstructure:"progress"`
}

// Load reads configuration from the given file path (optional) and LEKIA_*
// environment variables, applying defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "data/lekia.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("gateway.base_url", "https://api.openai.com")
	v.SetDefault("gateway.model", "gpt-4o-mini")
	v.SetDefault("gateway.temperature", 0.7)
	v.SetDefault("gateway.timeout", 45*time.Second)
	v.SetDefault("gateway.max_attempts", 3)
	v.SetDefault("gateway.retry_wait", 400*time.Millisecond)
	v.SetDefault("progress.poll_interval", 2*time.Second)
	v.SetDefault("progress.heartbeat_interval", 30*time.Second)

	v.SetEnvPrefix("LEKIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
