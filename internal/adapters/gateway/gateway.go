// Package gateway adapts the external text-completion model behind a
// minimal interface.
//
// The model is an untrusted black box reached over the network: every
// call carries a bounded timeout, and every failure mode (transport
// error, non-2xx, timeout, empty completion) collapses into
// ErrUnavailable so callers decide the fallback policy, not this
// package.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/teamlens/alignd/pkg/metrics"
)

// Default gateway configuration constants.
const (
	defaultTimeout     = 20 * time.Second
	defaultTemperature = 0.2
	defaultMaxTokens   = 512
)

// Client is the completion contract consumed by the application layer.
type Client interface {
	// Complete sends a prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelGateway implements Client on top of a langchaingo model.
type ModelGateway struct {
	llm         llms.Model
	timeout     time.Duration
	temperature float64
	maxTokens   int
}

// New wraps an existing langchaingo model. Used directly by tests and by
// NewOpenAI for production wiring.
func New(llm llms.Model, opts ...Option) *ModelGateway {
	g := &ModelGateway{
		llm:         llm,
		timeout:     defaultTimeout,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// NewOpenAI constructs a gateway against OpenAI or any OpenAI-compatible
// endpoint. baseURL may be empty for the public API.
func NewOpenAI(modelName, baseURL, apiKey string, opts ...Option) (*ModelGateway, error) {
	llmOpts := []openai.Option{openai.WithModel(modelName)}
	if apiKey != "" {
		llmOpts = append(llmOpts, openai.WithToken(apiKey))
	}
	if baseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("constructing model client: %w", err)
	}
	return New(llm, opts...), nil
}

// Complete invokes the model with a bounded timeout.
func (g *ModelGateway) Complete(ctx context.Context, prompt string) (string, error) {
	metrics.RecordGatewayCall()

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(cctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	metrics.RecordGatewayLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordGatewayError()
		metrics.RecordErrorByComponent("gateway", errorType(cctx, err))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out) == "" {
		metrics.RecordGatewayError()
		metrics.RecordErrorByComponent("gateway", "empty_completion")
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return out, nil
}

// errorType labels a failed call for the error-by-component metric.
func errorType(ctx context.Context, err error) string {
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return "timeout"
	case ctx.Err() == context.Canceled:
		return "cancelled"
	case err != nil:
		return "transport"
	default:
		return "unknown"
	}
}
