package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent linctl configuration stored as
// config.toml in the .linctl/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Profile  string         `toml:"profile,omitempty"`
	API      APIConfig      `toml:"api"`
	Defaults DefaultsConfig `toml:"defaults"`
	Output   OutputConfig   `toml:"output"`
	Retry    RetryConfig    `toml:"retry"`
}

// APIConfig holds Linear API endpoint settings.
type APIConfig struct {
	URL string `toml:"url,omitempty"`
}

// DefaultsConfig holds default values applied when flags are omitted.
type DefaultsConfig struct {
	Team     string `toml:"team,omitempty"`
	PageSize int    `toml:"page_size,omitempty"`
}

// OutputConfig holds default output formatting settings.
type OutputConfig struct {
	Format string `toml:"format,omitempty"`
	Width  int    `toml:"width,omitempty"`
}

// RetryConfig holds the backoff policy for transient API failures.
type RetryConfig struct {
	MaxRetries     int `toml:"max_retries"`
	InitialDelayMS int `toml:"initial_delay_ms,omitempty"`
	MaxDelayMS     int `toml:"max_delay_ms,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"profile": {
		get: func(c *Config) string { return c.Profile },
		set: func(c *Config, v string) error { c.Profile = v; return nil },
	},
	"api.url": {
		get: func(c *Config) string { return c.API.URL },
		set: func(c *Config, v string) error { c.API.URL = v; return nil },
	},
	"defaults.team": {
		get: func(c *Config) string { return c.Defaults.Team },
		set: func(c *Config, v string) error { c.Defaults.Team = v; return nil },
	},
	"defaults.page_size": {
		get: func(c *Config) string {
			if c.Defaults.PageSize == 0 {
				return ""
			}
			return strconv.Itoa(c.Defaults.PageSize)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid value for defaults.page_size: %q", v)
			}
			c.Defaults.PageSize = n
			return nil
		},
	},
	"output.format": {
		get: func(c *Config) string { return c.Output.Format },
		set: func(c *Config, v string) error {
			switch v {
			case "table", "json", "ndjson":
				c.Output.Format = v
				return nil
			}
			return fmt.Errorf("invalid value for output.format: %q (want table, json, or ndjson)", v)
		},
	},
	"output.width": {
		get: func(c *Config) string {
			if c.Output.Width == 0 {
				return ""
			}
			return strconv.Itoa(c.Output.Width)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for output.width: %q", v)
			}
			c.Output.Width = n
			return nil
		},
	},
	"retry.max_retries": {
		get: func(c *Config) string { return strconv.Itoa(c.Retry.MaxRetries) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for retry.max_retries: %q", v)
			}
			c.Retry.MaxRetries = n
			return nil
		},
	},
	"retry.initial_delay_ms": {
		get: func(c *Config) string {
			if c.Retry.InitialDelayMS == 0 {
				return ""
			}
			return strconv.Itoa(c.Retry.InitialDelayMS)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for retry.initial_delay_ms: %q", v)
			}
			c.Retry.InitialDelayMS = n
			return nil
		},
	},
	"retry.max_delay_ms": {
		get: func(c *Config) string {
			if c.Retry.MaxDelayMS == 0 {
				return ""
			}
			return strconv.Itoa(c.Retry.MaxDelayMS)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for retry.max_delay_ms: %q", v)
			}
			c.Retry.MaxDelayMS = n
			return nil
		},
	},
}
