package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/linctl/linctl/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LINCTL_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the root command)
//  2. Environment variables (LINCTL_API_URL, LINCTL_OUTPUT_FORMAT, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: LINCTL_DEFAULTS_TEAM, LINCTL_RETRY_MAX_RETRIES, etc.
	v.SetEnvPrefix("LINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// LoadEffective returns the configuration with the full precedence chain
// applied: defaults, then config.toml values, then LINCTL_-prefixed
// environment variables. Commands that only read config use this; the
// Configer read/write path stays file-only so 'config set' never persists
// an environment override into config.toml.
func LoadEffective(configDir string) (*Config, error) {
	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Version: v.GetInt("version"),
		Profile: v.GetString("profile"),
	}
	cfg.API.URL = v.GetString("api.url")
	cfg.Defaults.Team = v.GetString("defaults.team")
	cfg.Defaults.PageSize = v.GetInt("defaults.page_size")
	cfg.Output.Format = v.GetString("output.format")
	cfg.Output.Width = v.GetInt("output.width")
	cfg.Retry.MaxRetries = v.GetInt("retry.max_retries")
	cfg.Retry.InitialDelayMS = v.GetInt("retry.initial_delay_ms")
	cfg.Retry.MaxDelayMS = v.GetInt("retry.max_delay_ms")

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("profile", d.Profile)

	// API
	v.SetDefault("api.url", d.API.URL)

	// Defaults
	v.SetDefault("defaults.team", d.Defaults.Team)
	v.SetDefault("defaults.page_size", d.Defaults.PageSize)

	// Output
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.width", d.Output.Width)

	// Retry
	v.SetDefault("retry.max_retries", d.Retry.MaxRetries)
	v.SetDefault("retry.initial_delay_ms", d.Retry.InitialDelayMS)
	v.SetDefault("retry.max_delay_ms", d.Retry.MaxDelayMS)
}
