// Package llm wraps an OpenAI-compatible chat-completion endpoint (Groq by
// default) behind a single Complete call used for language detection and
// sentiment analysis.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-sentiment-backend/internal/config"
)

var (
	// ErrMissingAPIKey is returned when neither GROQ_API_KEY nor
	// OPENAI_API_KEY was configured.
	ErrMissingAPIKey = errors.New("GROQ_API_KEY is not set")

	// ErrUpstream wraps transport and provider errors.
	ErrUpstream = errors.New("chat completion failed")

	// ErrEmptyResponse is returned when the provider answers without content.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

var llmLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Duration of chat-completion calls in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
	},
	[]string{"model", "outcome"},
)

func init() {
	prometheus.MustRegister(llmLatency)
}

// Request is one system+user exchange.
type Request struct {
	// Name labels the call in traces and logs ("detect_language", "analyze").
	Name      string
	System    string
	User      string
	MaxTokens int
}

// Client is a thin wrapper around the openai-go chat completions service.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	timeout     time.Duration
}

// NewClient builds a Client from LLM settings. It performs no network I/O.
func NewClient(cfg config.LLMConfig, extra ...option.RequestOption) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends req and returns the first choice's message content,
// trimmed. No retries are attempted.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("llm/Client").Start(ctx, "Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.call", req.Name),
			attribute.String("llm.model", c.model),
			attribute.Int("llm.max_tokens", req.MaxTokens),
		),
	)
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(c.temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	elapsed := time.Since(start)

	if err != nil {
		llmLatency.WithLabelValues(c.model, "error").Observe(elapsed.Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream error")

		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.status_code", apiErr.StatusCode))
			log.Ctx(ctx).Warn().Str("call", req.Name).Int("status", apiErr.StatusCode).Dur("elapsed", elapsed).Msg("chat completion rejected")
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		llmLatency.WithLabelValues(c.model, "empty").Observe(elapsed.Seconds())
		span.SetStatus(codes.Error, "empty response")
		return "", ErrEmptyResponse
	}

	llmLatency.WithLabelValues(c.model, "ok").Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int64("llm.usage.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int64("llm.usage.completion_tokens", resp.Usage.CompletionTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
