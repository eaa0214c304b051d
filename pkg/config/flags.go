package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --output
// on analyze, report, and the chart commands).
type Flag struct {
	// Name is the long flag name (e.g. "output").
	Name string

	// Shorthand is the one-letter short flag (e.g. "o"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "analytics.output_dir").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagOutputDir       = "output"
	FlagMaxCharts       = "max-charts"
	FlagDashboardListen = "listen"
	FlagResearchTimeout = "timeout"
	FlagPersona         = "persona"
	FlagBaseURL         = "base-url"
	FlagGeminiModel     = "model"
	FlagSQLite          = "sqlite"
	FlagEventsProvider  = "events-provider"
	FlagEventsBrokers   = "events-brokers"
	FlagEventsTopic     = "events-topic"
)

// Flags is the default flag registry shared by the alembic commands.
var Flags = FlagSet{
	FlagOutputDir: {
		Name:        "output",
		Shorthand:   "o",
		ViperKey:    "analytics.output_dir",
		Description: "Output directory for results",
	},
	FlagMaxCharts: {
		Name:        "max-charts",
		ViperKey:    "analytics.max_charts",
		Description: "Maximum number of charts to generate",
	},
	FlagDashboardListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "dashboard.listen",
		Description: "Address for the dashboard server to listen on",
	},
	FlagResearchTimeout: {
		Name:        "timeout",
		ViperKey:    "dashboard.research_timeout_seconds",
		Description: "Research request deadline in seconds",
	},
	FlagPersona: {
		Name:        "persona",
		ViperKey:    "platform.persona",
		Description: "Platform persona for chat generation",
	},
	FlagBaseURL: {
		Name:        "base-url",
		ViperKey:    "platform.base_url",
		Description: "Context platform base URL",
	},
	FlagGeminiModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "gemini.model",
		Description: "Generative model name",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "store.sqlite_path",
		Description: "Path to the report history SQLite database (default: in-memory)",
	},
	FlagEventsProvider: {
		Name:        "events-provider",
		ViperKey:    "events.provider",
		Description: "Report event publisher (nop, kafka)",
	},
	FlagEventsBrokers: {
		Name:        "events-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma-separated Kafka broker addresses",
	},
	FlagEventsTopic: {
		Name:        "events-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for report events",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
