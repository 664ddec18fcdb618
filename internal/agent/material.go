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

// MaterialAnalyzer turns a product analysis into categorized materials with
// quantities and market prices. The BOM is built from its categories, so an
// empty result fails the run.
type MaterialAnalyzer struct {
	inv      Invoker
	search   perplexity.Client
	models   Models
	attempts int
}

// NewMaterialAnalyzer creates the material analysis stage. search may be
// nil; pricing then relies on model knowledge alone.
func NewMaterialAnalyzer(inv Invoker, search perplexity.Client, models Models, attempts int) *MaterialAnalyzer {
	if attempts <= 0 {
		attempts = defaultStageAttempts
	}
	return &MaterialAnalyzer{inv: inv, search: search, models: models, attempts: attempts}
}

// Analyze identifies all materials needed to manufacture the analyzed
// product, enriched with current pricing context from web search.
func (a *MaterialAnalyzer) Analyze(ctx context.Context, product model.StageResult) (model.StageResult, error) {
	summary, err := json.Marshal(product)
	if err != nil {
		return nil, eris.Wrap(err, "material: marshal product analysis")
	}

	prompt := "Product Analysis Summary:\n" + string(summary) +
		"\n\nBased on the product analysis above, identify ALL materials required to manufacture this product." +
		"\nFor each material, provide detailed specifications and current market prices." +
		"\n\nReturn a JSON structure with a \"categories\" array, where each category contains an array of \"items\" (materials)." +
		"\nEach material must have accurate pricing where total_cost = unit_cost * estimated_quantity."

	if category, _ := product["product_category"].(string); category != "" {
		if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, "current material costs for manufacturing "+category+" products 2025"); enrichment != "" {
			prompt += "\n\nCurrent Market Pricing Context:\n" + enrichment
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
			System:      materialSystemPrompt,
			Prompt:      p,
			Temperature: 0.3,
			MaxTokens:   4096,
			JSONOnly:    true,
		})
		if err != nil {
			return nil, eris.Wrap(err, "material: analyze")
		}

		result = repair.Repair(text)
		if result.HasItems("categories") || result.HasItems("primary_materials") {
			return result, nil
		}
		zap.L().Warn("material analysis returned no categories, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", a.attempts),
		)
	}

	return nil, eris.New("material: analysis produced no material categories after retries")
}
