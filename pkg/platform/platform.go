// Package platform is an HTTP client for the Alchemyst context platform:
// document ingestion (context add), vector search (context search), and the
// persona-driven chat generate endpoints, including the streaming variant
// consumed through pkg/stream.
package platform

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey  = errors.New("platform: missing API key")
	ErrMissingBaseURL = errors.New("platform: missing base URL")
)

// Config carries the settings needed to talk to the platform backend.
type Config struct {
	// BaseURL is the API root, e.g. "https://platform-backend.getalchemystai.com/api/v1".
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Persona selects the preset behavior for chat generation.
	Persona string

	// Timeout bounds each request. Streaming research responses can take
	// minutes, so this defaults generously.
	Timeout time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client calls the context platform. Construct with New.
type Client struct {
	baseURL string
	apiKey  string
	persona string
	httpc   *http.Client
	log     *slog.Logger
}

// New validates cfg and returns a ready Client.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			// Streaming chat responses can be slow.
			timeout = 5 * time.Minute
		}
		httpc = &http.Client{Timeout: timeout}
	}

	if log == nil {
		log = slog.Default()
	}

	persona := cfg.Persona
	if persona == "" {
		persona = "maya"
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		persona: persona,
		httpc:   httpc,
		log:     log,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}
