package agent

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
)

// ProductAnalyzer identifies the product, its components, and likely
// materials from images. This is the first pipeline stage; the whole run
// fails if it cannot produce a usable analysis.
type ProductAnalyzer struct {
	inv      Invoker
	models   Models
	attempts int
}

// NewProductAnalyzer creates the product analysis stage.
func NewProductAnalyzer(inv Invoker, models Models, attempts int) *ProductAnalyzer {
	if attempts <= 0 {
		attempts = defaultStageAttempts
	}
	return &ProductAnalyzer{inv: inv, models: models, attempts: attempts}
}

// Analyze inspects the product images and returns the structural analysis.
// Unusable output is retried with a concise-output directive before giving
// up.
func (a *ProductAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (model.StageResult, error) {
	if len(req.Images) == 0 {
		return nil, eris.New("product: at least one image is required")
	}

	description := req.Description
	if description == "" {
		description = "Not provided"
	}
	prompt := "Product Description: " + description + "\n\nAnalyze the provided images and provide a comprehensive product analysis in JSON format."

	var result model.StageResult
	for attempt := 0; attempt < a.attempts; attempt++ {
		p := prompt
		if attempt > 0 {
			p += conciseDirective
		}

		text, err := a.inv.Invoke(ctx, gateway.Request{
			Model:       a.models.Vision,
			System:      productSystemPrompt,
			Prompt:      p,
			Images:      req.Images,
			Temperature: 0.3,
			MaxTokens:   4096,
			JSONOnly:    true,
		})
		if err != nil {
			return nil, eris.Wrap(err, "product: analyze")
		}

		result = repair.Repair(text)
		if productUsable(result) {
			return result, nil
		}
		zap.L().Warn("product analysis unusable, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", a.attempts),
		)
	}

	return nil, eris.New("product: analysis produced no usable components after retries")
}

// productUsable requires a parsed analysis with detected components or, at
// minimum, identified key materials.
func productUsable(r model.StageResult) bool {
	if r == nil {
		return false
	}
	if _, failed := r["error"]; failed {
		return false
	}
	return r.HasItems("detected_components") || r.HasItems("key_materials")
}
