// Package agent implements the analysis stages. Each agent owns its prompt,
// model parameters, and result validation; transport concerns live in the
// gateway and web-search enrichment in the perplexity client.
package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// Invoker dispatches a model request and returns the response text. It is
// satisfied by *gateway.Gateway.
type Invoker interface {
	Invoke(ctx context.Context, req gateway.Request) (string, error)
}

// Models names the models the agents call: vision for image analysis,
// text for everything else.
type Models struct {
	Vision string
	Text   string
}

// conciseDirective is appended to a stage prompt when a previous attempt
// produced unusable output, steering the model toward shorter responses
// that fit the token budget.
const conciseDirective = "\n\nIMPORTANT: Your previous response was incomplete or invalid. Respond with concise, complete JSON only. Keep item lists short and omit optional commentary."

// defaultStageAttempts bounds validation retries per stage.
const defaultStageAttempts = 3

// searchContext fetches current market information for query. It tries the
// web search provider first, falls back to model-knowledge synthesis, and
// returns "" when both are unavailable so callers degrade to unenriched
// prompts.
func searchContext(ctx context.Context, search perplexity.Client, inv Invoker, textModel, query string) string {
	if search != nil {
		summary, err := perplexity.Search(ctx, search, query)
		if err == nil && summary != "" {
			return summary
		}
		if err != nil {
			zap.L().Debug("web search unavailable, synthesizing from model knowledge",
				zap.String("query", query),
				zap.Error(err),
			)
		}
	}

	text, err := inv.Invoke(ctx, gateway.Request{
		Model:       textModel,
		Prompt:      "Based on your knowledge, provide current market information about: " + query + ". Include typical pricing, trends, and market factors. Be concise and factual.",
		Temperature: 0.5,
		MaxTokens:   512,
	})
	if err != nil {
		zap.L().Debug("knowledge synthesis unavailable", zap.String("query", query), zap.Error(err))
		return ""
	}
	return text
}
