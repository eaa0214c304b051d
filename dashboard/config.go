// Package dashboard provides the HTTP dashboard for running research queries
// and browsing previously persisted reports.
package dashboard

import "time"

// DefaultResearchTimeout bounds how long one research request may run before
// the outbound call is cancelled and the client gets a gateway timeout.
const DefaultResearchTimeout = 300 * time.Second

// Config is the dashboard server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// ResearchTimeout bounds each research request. Zero means
	// DefaultResearchTimeout.
	ResearchTimeout time.Duration

	// Persona is recorded on published report events.
	Persona string
}

func (c Config) researchTimeout() time.Duration {
	if c.ResearchTimeout <= 0 {
		return DefaultResearchTimeout
	}
	return c.ResearchTimeout
}
