package platform

// Message is a single chat turn sent to the generate endpoints.
type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// chatRequest is the wire shape of the generate endpoints.
type chatRequest struct {
	ChatHistory []Message `json:"chat_history"`
	Persona     string    `json:"persona"`
}

// generateResponse covers both response shapes the non-streaming generate
// endpoint has been observed to return.
type generateResponse struct {
	Content  string `json:"content"`
	Response string `json:"response"`
}

func (r generateResponse) text() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Response
}

// Document is one unit of content submitted to context add.
type Document struct {
	Content string `json:"content"`
}

// DocumentMetadata is the rich metadata attached to an ingested document.
// Ingestion retries without it when the platform rejects the full payload.
type DocumentMetadata struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	// LastModified is milliseconds since the Unix epoch, as a string.
	LastModified string `json:"lastModified"`
	FileSize     int64  `json:"fileSize"`
}

// AddRequest is the wire shape of POST /context/add.
type AddRequest struct {
	Documents   []Document        `json:"documents"`
	Source      string            `json:"source"`
	ContextType string            `json:"context_type"`
	Scope       string            `json:"scope"`
	Metadata    *DocumentMetadata `json:"metadata,omitempty"`
}

// SearchRequest is the wire shape of POST /context/search.
type SearchRequest struct {
	Query                      string         `json:"query"`
	SimilarityThreshold        float64        `json:"similarity_threshold"`
	MinimumSimilarityThreshold float64        `json:"minimum_similarity_threshold"`
	Scope                      string         `json:"scope"`
	Metadata                   map[string]any `json:"metadata"`
}

// ContextResult is a single matched context from a search.
type ContextResult struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the wire shape of a search result set.
type SearchResponse struct {
	Contexts []ContextResult `json:"contexts"`
}

// JoinedContent concatenates every matched context with single spaces,
// the form the research and answer prompts expect.
func (r SearchResponse) JoinedContent() string {
	switch len(r.Contexts) {
	case 0:
		return ""
	case 1:
		return r.Contexts[0].Content
	}

	out := r.Contexts[0].Content
	for _, c := range r.Contexts[1:] {
		out += " " + c.Content
	}
	return out
}
