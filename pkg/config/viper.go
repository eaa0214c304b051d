package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hexlockco/alembic/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the ALEMBIC_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (ALEMBIC_DASHBOARD_LISTEN, ALEMBIC_GEMINI_MODEL, etc.)
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

	// 3. Environment variables: ALEMBIC_PLATFORM_BASE_URL, ALEMBIC_STORE_SQLITE_PATH, etc.
	v.SetEnvPrefix("ALEMBIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// ConfigFromViper materializes a Config from the viper precedence chain.
// Call after InitViper and BindRegisteredFlags so flag and env overrides
// are reflected.
func ConfigFromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Platform: PlatformConfig{
			BaseURL:        v.GetString("platform.base_url"),
			Persona:        v.GetString("platform.persona"),
			TimeoutSeconds: v.GetUint("platform.timeout_seconds"),
		},
		Gemini: GeminiConfig{
			Model:       v.GetString("gemini.model"),
			Temperature: v.GetFloat64("gemini.temperature"),
		},
		Dashboard: DashboardConfig{
			Listen:                 v.GetString("dashboard.listen"),
			ResearchTimeoutSeconds: v.GetUint("dashboard.research_timeout_seconds"),
		},
		Analytics: AnalyticsConfig{
			OutputDir: v.GetString("analytics.output_dir"),
			MaxCharts: v.GetUint("analytics.max_charts"),
		},
		Store: StoreConfig{
			SQLitePath: v.GetString("store.sqlite_path"),
		},
		Events: EventsConfig{
			Provider: v.GetString("events.provider"),
			Brokers:  v.GetString("events.brokers"),
			Topic:    v.GetString("events.topic"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Platform
	v.SetDefault("platform.base_url", d.Platform.BaseURL)
	v.SetDefault("platform.persona", d.Platform.Persona)
	v.SetDefault("platform.timeout_seconds", d.Platform.TimeoutSeconds)

	// Gemini
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.temperature", d.Gemini.Temperature)

	// Dashboard
	v.SetDefault("dashboard.listen", d.Dashboard.Listen)
	v.SetDefault("dashboard.research_timeout_seconds", d.Dashboard.ResearchTimeoutSeconds)

	// Analytics
	v.SetDefault("analytics.output_dir", d.Analytics.OutputDir)
	v.SetDefault("analytics.max_charts", d.Analytics.MaxCharts)

	// Store
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}
