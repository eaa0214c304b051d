package platform_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/platform"
	"github.com/hexlockco/alembic/pkg/stream"
)

var _ = Describe("Client", func() {
	Describe("New", func() {
		It("requires an API key", func() {
			_, err := platform.New(platform.Config{BaseURL: "http://localhost"}, nil)
			Expect(err).To(MatchError(platform.ErrMissingAPIKey))
		})

		It("requires a base URL", func() {
			_, err := platform.New(platform.Config{APIKey: "key"}, nil)
			Expect(err).To(MatchError(platform.ErrMissingBaseURL))
		})
	})

	Describe("GenerateStream", func() {
		It("sends the chat history with persona and decodes the stream", func() {
			var gotAuth string
			var gotBody map[string]any

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				Expect(r.URL.Path).To(Equal("/api/v1/chat/generate/stream"))

				raw, err := io.ReadAll(r.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(raw, &gotBody)).To(Succeed())

				w.Header().Set("Content-Type", "text/event-stream")
				io.WriteString(w, "data: {\"content\":\"alpha \"}\n")
				io.WriteString(w, "data: {\"content\":\"beta\"}\n")
				io.WriteString(w, "data: [DONE]\n")
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{
				BaseURL: srv.URL + "/api/v1",
				APIKey:  "test-key",
				Persona: "maya",
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			var events []stream.Event
			result, err := client.GenerateStream(context.Background(), "tell me things", func(ev stream.Event) {
				events = append(events, ev)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("alpha beta"))

			Expect(gotAuth).To(Equal("Bearer test-key"))
			Expect(gotBody["persona"]).To(Equal("maya"))
			history := gotBody["chat_history"].([]any)
			Expect(history).To(HaveLen(1))
			turn := history[0].(map[string]any)
			Expect(turn["role"]).To(Equal("user"))
			Expect(turn["content"]).To(Equal("tell me things"))

			Expect(events).To(HaveLen(3))
			Expect(events[2].Kind).To(Equal(stream.KindStatus))
		})

		It("reports a request failure as one error event and an empty result", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream exploded", http.StatusBadGateway)
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			var events []stream.Event
			result, err := client.GenerateStream(context.Background(), "q", func(ev stream.Event) {
				events = append(events, ev)
			})
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindError))
			Expect(events[0].Text).To(ContainSubstring("502"))
		})

		It("reports a connection failure without panicking", func() {
			client, err := platform.New(platform.Config{
				// Nothing listens here.
				BaseURL: "http://127.0.0.1:1",
				APIKey:  "k",
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			var events []stream.Event
			result, err := client.GenerateStream(context.Background(), "q", func(ev stream.Event) {
				events = append(events, ev)
			})
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(stream.KindError))
		})
	})

	Describe("Generate", func() {
		It("returns the content field when present", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/chat/generate"))
				json.NewEncoder(w).Encode(map[string]string{"content": "the answer"})
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			text, err := client.Generate(context.Background(), "q")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("the answer"))
		})

		It("falls back to the response field", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"response": "alternate shape"})
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			text, err := client.Generate(context.Background(), "q")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("alternate shape"))
		})

		It("surfaces non-2xx statuses as errors", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusUnauthorized)
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Generate(context.Background(), "q")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("401"))
		})
	})

	Describe("AddContext", func() {
		It("posts documents with metadata", func() {
			var got platform.AddRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/context/add"))
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			err = client.AddContext(context.Background(), platform.AddRequest{
				Documents:   []platform.Document{{Content: "doc body"}},
				Source:      "notes.md",
				ContextType: "resource",
				Scope:       "internal",
				Metadata: &platform.DocumentMetadata{
					FileName: "notes.md",
					FileType: "resource",
					FileSize: 8,
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Documents).To(HaveLen(1))
			Expect(got.Source).To(Equal("notes.md"))
			Expect(got.Metadata.FileName).To(Equal("notes.md"))
		})

		It("returns an error on rejection", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			err = client.AddContext(context.Background(), platform.AddRequest{
				Documents: []platform.Document{{Content: "x"}},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SearchContext", func() {
		It("returns matched contexts", func() {
			var got platform.SearchRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/context/search"))
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				json.NewEncoder(w).Encode(platform.SearchResponse{
					Contexts: []platform.ContextResult{
						{Content: "first", Score: 0.91},
						{Content: "second", Score: 0.85},
					},
				})
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.SearchContext(context.Background(), platform.SearchRequest{
				Query:                      "what is first",
				SimilarityThreshold:        0.8,
				MinimumSimilarityThreshold: 0.4,
				Scope:                      "internal",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Contexts).To(HaveLen(2))
			Expect(resp.JoinedContent()).To(Equal("first second"))

			Expect(got.SimilarityThreshold).To(Equal(0.8))
			Expect(got.MinimumSimilarityThreshold).To(Equal(0.4))
		})

		It("treats an empty result set as a miss, not an error", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(platform.SearchResponse{})
			}))
			defer srv.Close()

			client, err := platform.New(platform.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.SearchContext(context.Background(), platform.SearchRequest{Query: "nothing"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Contexts).To(BeEmpty())
			Expect(resp.JoinedContent()).To(BeEmpty())
		})
	})
})
