package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sourceflow-ai/bom-cli/internal/agent"
	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	anthropicpkg "github.com/sourceflow-ai/bom-cli/pkg/anthropic"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// newGateway wires the model gateway from config. Fails before any network
// call when the API key is missing.
func newGateway() (*gateway.Gateway, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key not configured (set SOURCEFLOW_ANTHROPIC_KEY)")
	}
	return gateway.New(
		anthropicpkg.NewClient(cfg.Anthropic.Key),
		gateway.WithRateLimit(cfg.Anthropic.RequestsPerSecond),
	), nil
}

// newSearch returns the web search client, or nil when no key is
// configured. Agents degrade to model knowledge without it.
func newSearch() perplexity.Client {
	if cfg.Perplexity.Key == "" {
		return nil
	}
	return perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model),
	)
}

func agentModels() agent.Models {
	return agent.Models{
		Vision: cfg.Anthropic.VisionModel,
		Text:   cfg.Anthropic.TextModel,
	}
}

// writeJSON prints v to stdout as indented JSON.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
