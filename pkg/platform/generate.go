package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hexlockco/alembic/pkg/stream"
)

// GenerateStream sends prompt to the streaming chat endpoint and decodes the
// response incrementally, forwarding decoder events to cb.
//
// Request-level failures (connection error, non-2xx status) are reported as
// a single error event and an empty result; they never panic or leave the
// callback without an explanation. The returned error carries the same
// failure for callers that want to branch on it.
func (c *Client) GenerateStream(ctx context.Context, prompt string, cb stream.Callback) (string, error) {
	resp, err := c.postChat(ctx, "/chat/generate/stream", prompt)
	if err != nil {
		c.emitRequestError(cb, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := statusError(resp)
		c.emitRequestError(cb, err)
		return "", err
	}

	return stream.NewDecoder(resp.Body, cb).Run()
}

// Generate sends prompt to the non-streaming chat endpoint and returns the
// full response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.postChat(ctx, "/chat/generate", prompt)
	if err != nil {
		return "", fmt.Errorf("sending generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	return gr.text(), nil
}

func (c *Client) postChat(ctx context.Context, path, prompt string) (*http.Response, error) {
	body := chatRequest{
		ChatHistory: []Message{{Content: prompt, Role: "user"}},
		Persona:     c.persona,
	}
	return c.postJSON(ctx, path, body)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("platform request", "path", path, "bytes", len(payload))

	return c.httpc.Do(req)
}

func (c *Client) emitRequestError(cb stream.Callback, err error) {
	c.log.Debug("platform stream request failed", "error", err)
	if cb != nil {
		cb(stream.Event{Kind: stream.KindError, Text: "request failed: " + err.Error()})
	}
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	return fmt.Errorf("platform returned status %d: %s", resp.StatusCode, string(body))
}
