package config

import (
	"errors"
	"os"
)

const (
	// PlatformKeyEnv is the environment variable holding the context
	// platform API key.
	PlatformKeyEnv = "ALCHEMYST_API_KEY"

	// GeminiKeyEnv is the environment variable holding the
	// generative-language API key.
	GeminiKeyEnv = "GEMINI_API_KEY"
)

var (
	// ErrMissingPlatformKey indicates the platform API key env var is unset.
	ErrMissingPlatformKey = errors.New("ALCHEMYST_API_KEY is not set")

	// ErrMissingGeminiKey indicates the Gemini API key env var is unset.
	ErrMissingGeminiKey = errors.New("GEMINI_API_KEY is not set")
)

// Credentials holds the API keys for the two external AI providers.
// Keys are read from the environment at process start; a missing key is a
// fatal configuration error for the commands that need it.
type Credentials struct {
	PlatformKey string
	GeminiKey   string
}

// CredentialsFromEnv reads both API keys from the environment.
// Each key is validated lazily by the accessor for the provider a command
// actually uses, so analytics-only commands can run with neither key set.
func CredentialsFromEnv() *Credentials {
	return &Credentials{
		PlatformKey: os.Getenv(PlatformKeyEnv),
		GeminiKey:   os.Getenv(GeminiKeyEnv),
	}
}

// RequirePlatformKey returns the platform API key or a fatal config error.
func (c *Credentials) RequirePlatformKey() (string, error) {
	if c.PlatformKey == "" {
		return "", ErrMissingPlatformKey
	}
	return c.PlatformKey, nil
}

// RequireGeminiKey returns the Gemini API key or a fatal config error.
func (c *Credentials) RequireGeminiKey() (string, error) {
	if c.GeminiKey == "" {
		return "", ErrMissingGeminiKey
	}
	return c.GeminiKey, nil
}
