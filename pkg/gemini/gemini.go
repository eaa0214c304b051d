// Package gemini wraps the Google GenAI SDK for single prompt-in, text-out
// generation. Streaming semantics are left entirely to the provider.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var ErrMissingAPIKey = errors.New("gemini: missing API key")

const defaultModel = "gemini-2.0-flash"

// Config carries client settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// Client generates text through the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

// New returns a Client backed by the GenAI SDK.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// GenerateText sends a single prompt and returns the response text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	return result.Text(), nil
}

// Model reports the configured model name.
func (c *Client) Model() string {
	return c.model
}
