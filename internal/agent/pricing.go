package agent

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// PricingAnalyzer verifies and refines material prices against current
// market data, preserving the material analysis category structure.
type PricingAnalyzer struct {
	inv      Invoker
	search   perplexity.Client
	models   Models
	attempts int
}

// NewPricingAnalyzer creates the pricing refinement stage. search may be
// nil.
func NewPricingAnalyzer(inv Invoker, search perplexity.Client, models Models, attempts int) *PricingAnalyzer {
	if attempts <= 0 {
		attempts = defaultStageAttempts
	}
	return &PricingAnalyzer{inv: inv, search: search, models: models, attempts: attempts}
}

// Analyze refines the material analysis pricing. When the model never
// produces usable pricing, the material categories are passed through
// unchanged so downstream consumers still see priced items.
func (a *PricingAnalyzer) Analyze(ctx context.Context, material model.StageResult) (model.StageResult, error) {
	materialJSON, err := json.Marshal(material)
	if err != nil {
		return nil, eris.Wrap(err, "pricing: marshal material analysis")
	}

	prompt := "Material Analysis:\n" + string(materialJSON) +
		"\n\nReview the materials organized by categories and:" +
		"\n1. Verify current market prices (2024-2025)" +
		"\n2. Refine unit costs based on real market data" +
		"\n3. Calculate accurate total costs (total_cost = unit_cost * estimated_quantity) for EVERY item" +
		"\n4. Preserve the category structure from the material analysis" +
		"\n\nReturn updated pricing data preserving the categories structure."

	if names := materialNames(material); len(names) > 0 {
		query := "current wholesale prices for " + names[0]
		if len(names) > 1 {
			query += " and " + names[1]
		}
		if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, query+" 2025"); enrichment != "" {
			prompt += "\n\nCurrent Market Data:\n" + enrichment
		}
	}

	var result model.StageResult
	for attempt := 0; attempt < a.attempts; attempt++ {
		p := prompt
		if attempt > 0 {
			p += conciseDirective
		}

		text, err := a.inv.Invoke(ctx, gateway.Request{
			Model:       a.models.Text,
			System:      pricingSystemPrompt,
			Prompt:      p,
			Temperature: 0.2,
			MaxTokens:   4096,
			JSONOnly:    true,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pricing: analyze")
		}

		result = repair.Repair(text)
		if pricingUsable(result) {
			return result, nil
		}
		zap.L().Warn("pricing analysis unusable, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", a.attempts),
		)
	}

	// Validation shortfall: keep the material pricing rather than losing
	// the categories entirely.
	zap.L().Warn("pricing analysis unusable after retries, passing material pricing through")
	fallback := model.StageResult{
		"pricing_analysis": map[string]any{
			"currency":          "USD",
			"market_conditions": "Pricing refinement unavailable, using material analysis estimates",
		},
	}
	if cats, ok := material["categories"]; ok {
		fallback["categories"] = cats
	}
	return fallback, nil
}

func pricingUsable(r model.StageResult) bool {
	if r == nil {
		return false
	}
	if r.HasItems("categories") {
		return true
	}
	if _, ok := r["materials_pricing"]; ok {
		return true
	}
	if _, ok := r["pricing_analysis"]; ok {
		return true
	}
	return false
}

// materialNames pulls a few representative item names out of the material
// analysis for the pricing search query.
func materialNames(material model.StageResult) []string {
	var names []string
	for _, c := range material.List("categories") {
		cat, ok := c.(map[string]any)
		if !ok {
			continue
		}
		items, ok := cat["items"].([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := item["name"].(string); name != "" {
				names = append(names, name)
				if len(names) >= 2 {
					return names
				}
			}
		}
	}
	return names
}
