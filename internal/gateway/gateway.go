// Package gateway is the single entry point for model calls. It owns rate
// limiting, class-aware retry, and JSON-only prompting so the analysis
// stages stay free of transport concerns.
package gateway

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/resilience"
	"github.com/sourceflow-ai/bom-cli/pkg/anthropic"
)

// jsonDirective steers the model toward raw JSON output. Anthropic has no
// native JSON response mode, so the directive is paired with an assistant
// "{" prefill.
const jsonDirective = "You must respond with valid JSON only. Do not include any explanatory text, markdown formatting, or code fences. Begin your response with the opening brace of the JSON object."

// Request describes one model invocation.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Images      []model.ImageBlob
	Temperature float64
	MaxTokens   int64

	// JSONOnly prefills the assistant turn with "{" and appends the JSON
	// directive to the system prompt. The returned text includes the
	// restored prefix.
	JSONOnly bool
}

// Gateway dispatches requests to the model provider with retry and rate
// limiting applied uniformly.
type Gateway struct {
	client  anthropic.Client
	retry   resilience.RetryConfig
	limiter *rate.Limiter
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(g *Gateway) {
		g.retry = cfg
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(g *Gateway) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a Gateway around client.
func New(client anthropic.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client: client,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(g)
	}
	if g.retry.OnRetry == nil {
		g.retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	}
	return g
}

// Invoke sends req to the model and returns the response text. Rate-limit
// and server errors are retried per the gateway's policy; exhaustion
// surfaces as a resilience.TransientServiceError.
func (g *Gateway) Invoke(ctx context.Context, req Request) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "gateway: rate limit wait")
		}
	}

	mreq := buildRequest(req)

	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.client.CreateMessage(ctx, mreq)
	})
	if err != nil {
		return "", err
	}

	resp.Usage.LogUsage(req.Model, systemLabel(req))
	if resp.StopReason == anthropic.StopReasonMaxTokens {
		zap.L().Warn("model response truncated at token budget",
			zap.String("model", req.Model),
			zap.Int64("max_tokens", req.MaxTokens),
		)
	}

	text := resp.Text
	if req.JSONOnly && !strings.HasPrefix(strings.TrimSpace(text), "{") {
		text = "{" + text
	}
	return text, nil
}

func buildRequest(req Request) anthropic.MessageRequest {
	parts := make([]anthropic.ContentPart, 0, len(req.Images)+1)
	for i := range req.Images {
		img := req.Images[i]
		parts = append(parts, anthropic.ContentPart{
			Image: &anthropic.ImageSource{
				MediaType: img.MediaType,
				Data:      img.Data,
				URL:       img.URL,
			},
		})
	}
	parts = append(parts, anthropic.TextPart(req.Prompt))

	messages := []anthropic.Message{
		{Role: "user", Content: parts},
	}

	system := req.System
	if req.JSONOnly {
		if system != "" {
			system += "\n\n"
		}
		system += jsonDirective
		messages = append(messages, anthropic.Message{
			Role:    "assistant",
			Content: []anthropic.ContentPart{anthropic.TextPart("{")},
		})
	}

	temp := req.Temperature
	return anthropic.MessageRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		System:      system,
		Messages:    messages,
		Temperature: &temp,
	}
}

// systemLabel derives a short label for usage logging from the first line
// of the system prompt.
func systemLabel(req Request) string {
	line, _, _ := strings.Cut(req.System, "\n")
	if len(line) > 48 {
		line = line[:48]
	}
	return line
}
