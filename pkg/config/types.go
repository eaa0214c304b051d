package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent alembic configuration stored as
// config.toml in the .alembic/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Platform  PlatformConfig  `toml:"platform"`
	Gemini    GeminiConfig    `toml:"gemini"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Store     StoreConfig     `toml:"store"`
	Events    EventsConfig    `toml:"events"`
}

// PlatformConfig holds settings for the remote context/research platform.
type PlatformConfig struct {
	BaseURL        string `toml:"base_url,omitempty"`
	Persona        string `toml:"persona,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
}

// GeminiConfig holds generative-text settings.
type GeminiConfig struct {
	Model       string  `toml:"model,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
}

// DashboardConfig holds dashboard server settings.
type DashboardConfig struct {
	Listen                 string `toml:"listen,omitempty"`
	ResearchTimeoutSeconds uint   `toml:"research_timeout_seconds,omitempty"`
}

// AnalyticsConfig holds data-analytics output settings.
type AnalyticsConfig struct {
	OutputDir string `toml:"output_dir,omitempty"`
	MaxCharts uint   `toml:"max_charts,omitempty"`
}

// StoreConfig holds report-history storage settings.
type StoreConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// EventsConfig holds completion-event publishing settings.
// Provider "nop" disables publishing; "kafka" publishes report events
// to the configured brokers and topic.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"platform.base_url": {
		get: func(c *Config) string { return c.Platform.BaseURL },
		set: func(c *Config, v string) error { c.Platform.BaseURL = v; return nil },
	},
	"platform.persona": {
		get: func(c *Config) string { return c.Platform.Persona },
		set: func(c *Config, v string) error { c.Platform.Persona = v; return nil },
	},
	"platform.timeout_seconds": {
		get: func(c *Config) string {
			if c.Platform.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Platform.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for platform.timeout_seconds: %w", err)
			}
			c.Platform.TimeoutSeconds = uint(n)
			return nil
		},
	},
	"gemini.model": {
		get: func(c *Config) string { return c.Gemini.Model },
		set: func(c *Config, v string) error { c.Gemini.Model = v; return nil },
	},
	"gemini.temperature": {
		get: func(c *Config) string {
			if c.Gemini.Temperature == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Gemini.Temperature, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for gemini.temperature: %w", err)
			}
			c.Gemini.Temperature = f
			return nil
		},
	},
	"dashboard.listen": {
		get: func(c *Config) string { return c.Dashboard.Listen },
		set: func(c *Config, v string) error { c.Dashboard.Listen = v; return nil },
	},
	"dashboard.research_timeout_seconds": {
		get: func(c *Config) string {
			if c.Dashboard.ResearchTimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Dashboard.ResearchTimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for dashboard.research_timeout_seconds: %w", err)
			}
			c.Dashboard.ResearchTimeoutSeconds = uint(n)
			return nil
		},
	},
	"analytics.output_dir": {
		get: func(c *Config) string { return c.Analytics.OutputDir },
		set: func(c *Config, v string) error { c.Analytics.OutputDir = v; return nil },
	},
	"analytics.max_charts": {
		get: func(c *Config) string {
			if c.Analytics.MaxCharts == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Analytics.MaxCharts), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for analytics.max_charts: %w", err)
			}
			c.Analytics.MaxCharts = uint(n)
			return nil
		},
	},
	"store.sqlite_path": {
		get: func(c *Config) string { return c.Store.SQLitePath },
		set: func(c *Config, v string) error { c.Store.SQLitePath = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
