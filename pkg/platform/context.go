package platform

import (
	"context"
	"encoding/json"
	"fmt"
)

// AddContext submits documents to the platform's context store.
func (c *Client) AddContext(ctx context.Context, req AddRequest) error {
	resp, err := c.postJSON(ctx, "/context/add", req)
	if err != nil {
		return fmt.Errorf("sending context add request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	return nil
}

// SearchContext queries the platform's context store. An empty result set is
// not an error; callers decide how to degrade.
func (c *Client) SearchContext(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	resp, err := c.postJSON(ctx, "/context/search", req)
	if err != nil {
		return nil, fmt.Errorf("sending context search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	return &sr, nil
}
