// Package config loads CLI configuration from defaults, an optional yaml
// config file, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the CLI needs at runtime. The API key is loaded
// once here and handed to the portal client at construction; nothing
// re-reads the environment afterwards.
type Config struct {
	Portal  PortalConfig  `mapstructure:"portal"`
	Query   QueryConfig   `mapstructure:"query"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PortalConfig holds upstream API settings.
type PortalConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	PagePause time.Duration `mapstructure:"page_pause"`
}

// QueryConfig holds pipeline defaults.
type QueryConfig struct {
	PageLimit int `mapstructure:"page_limit"`
	CacheSize int `mapstructure:"cache_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration in priority order: environment variables, then
// the config file (explicit path or ~/.contratos/config.yaml), then
// defaults. A .env file in the working directory is folded into the
// environment first, matching how the API key is distributed.
func Load(cfgFile string) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.contratos")
	}

	v.SetEnvPrefix("contratos")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The portal publishes the key under this name; accept it as-is so a
	// plain `export PORTAL_TRANSPARENCIA_TOKEN=...` works.
	if err := v.BindEnv("portal.api_key", "PORTAL_TRANSPARENCIA_TOKEN", "CONTRATOS_PORTAL_API_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: continue with defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.base_url", "https://api.portaldatransparencia.gov.br/api-de-dados/contratos")
	v.SetDefault("portal.timeout", "30s")
	v.SetDefault("portal.page_pause", "0s")

	v.SetDefault("query.page_limit", 50)
	v.SetDefault("query.cache_size", 32)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}
