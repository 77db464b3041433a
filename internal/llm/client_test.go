package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tbourn/go-sentiment-backend/internal/config"
	"github.com/tbourn/go-sentiment-backend/internal/llm"
)

type capturedRequest struct {
	Path string
	Auth string
	Body map[string]any
}

// fakeCompletions stands in for the provider's /chat/completions endpoint.
type fakeCompletions struct {
	mu       sync.Mutex
	status   int
	content  string
	delay    time.Duration
	requests []capturedRequest
}

func (f *fakeCompletions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	status, content, delay := f.status, f.content, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

var _ = Describe("Client", func() {
	var (
		fake   *fakeCompletions
		srv    *httptest.Server
		cfg    config.LLMConfig
		client *llm.Client
	)

	BeforeEach(func() {
		fake = &fakeCompletions{content: "  {\"ok\":true}  "}
		srv = httptest.NewServer(fake)
		cfg = config.LLMConfig{
			APIKey:      "test-key",
			BaseURL:     srv.URL + "/",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.1,
			Timeout:     5 * time.Second,
		}
		var err error
		client, err = llm.NewClient(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	Describe("NewClient", func() {
		It("rejects a blank API key", func() {
			cfg.APIKey = "   "
			_, err := llm.NewClient(cfg)
			Expect(err).To(MatchError(llm.ErrMissingAPIKey))
		})

		It("exposes the configured model", func() {
			Expect(client.Model()).To(Equal("llama-3.3-70b-versatile"))
		})
	})

	Describe("Complete", func() {
		It("sends system and user messages with the configured parameters", func() {
			out, err := client.Complete(context.Background(), llm.Request{
				Name:      "detect_language",
				System:    "sys",
				User:      "hello",
				MaxTokens: 200,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`{"ok":true}`))

			Expect(fake.requests).To(HaveLen(1))
			req := fake.requests[0]
			Expect(req.Path).To(Equal("/chat/completions"))
			Expect(req.Auth).To(Equal("Bearer test-key"))
			Expect(req.Body["model"]).To(Equal("llama-3.3-70b-versatile"))
			Expect(req.Body["temperature"]).To(BeNumerically("~", 0.1, 1e-9))
			Expect(req.Body["max_tokens"]).To(BeNumerically("==", 200))

			msgs, ok := req.Body["messages"].([]any)
			Expect(ok).To(BeTrue())
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0]).To(HaveKeyWithValue("role", "system"))
			Expect(msgs[1]).To(HaveKeyWithValue("role", "user"))
			Expect(msgs[1]).To(HaveKeyWithValue("content", "hello"))
		})

		It("wraps provider errors without retrying", func() {
			fake.status = http.StatusInternalServerError

			_, err := client.Complete(context.Background(), llm.Request{System: "s", User: "u"})
			Expect(errors.Is(err, llm.ErrUpstream)).To(BeTrue())
			Expect(fake.requests).To(HaveLen(1))
		})

		It("reports an empty completion", func() {
			fake.content = "   "

			_, err := client.Complete(context.Background(), llm.Request{System: "s", User: "u"})
			Expect(err).To(MatchError(llm.ErrEmptyResponse))
		})

		It("gives up after the configured timeout", func() {
			fake.delay = 2 * time.Second
			cfg.Timeout = 50 * time.Millisecond
			short, err := llm.NewClient(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = short.Complete(context.Background(), llm.Request{System: "s", User: "u"})
			Expect(errors.Is(err, llm.ErrUpstream)).To(BeTrue())
		})
	})
})
