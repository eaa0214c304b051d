package config

const (
	defaultPlatformBaseURL = "https://platform-backend.getalchemystai.com/api/v1"
	defaultPersona         = "maya"
	defaultPlatformTimeout = 300

	defaultGeminiModel = "gemini-2.0-flash"
	defaultTemperature = 0.7

	defaultDashboardListen = ":8090"
	defaultResearchTimeout = 300
	defaultAnalyticsOutDir = "./output"
	defaultAnalyticsCharts = 6
	defaultEventsProvider  = "nop"
	defaultEventsTopic     = "alembic.reports"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Platform: PlatformConfig{
			BaseURL:        defaultPlatformBaseURL,
			Persona:        defaultPersona,
			TimeoutSeconds: defaultPlatformTimeout,
		},
		Gemini: GeminiConfig{
			Model:       defaultGeminiModel,
			Temperature: defaultTemperature,
		},
		Dashboard: DashboardConfig{
			Listen:                 defaultDashboardListen,
			ResearchTimeoutSeconds: defaultResearchTimeout,
		},
		Analytics: AnalyticsConfig{
			OutputDir: defaultAnalyticsOutDir,
			MaxCharts: defaultAnalyticsCharts,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
