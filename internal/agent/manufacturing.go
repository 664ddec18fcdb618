package agent

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
)

// ManufacturingAnalyzer derives production steps, tooling, and complexity
// from the product and material analyses. The stage is advisory; failures
// degrade to a minimal default rather than failing the run.
type ManufacturingAnalyzer struct {
	inv    Invoker
	models Models
}

// NewManufacturingAnalyzer creates the manufacturing analysis stage.
func NewManufacturingAnalyzer(inv Invoker, models Models) *ManufacturingAnalyzer {
	return &ManufacturingAnalyzer{inv: inv, models: models}
}

// Analyze produces the manufacturing process breakdown.
func (a *ManufacturingAnalyzer) Analyze(ctx context.Context, product, material model.StageResult) (model.StageResult, error) {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return nil, eris.Wrap(err, "manufacturing: marshal product analysis")
	}
	materialJSON, err := json.Marshal(material)
	if err != nil {
		return nil, eris.Wrap(err, "manufacturing: marshal material analysis")
	}

	prompt := "Product Analysis:\n" + string(productJSON) +
		"\n\nMaterial Analysis:\n" + string(materialJSON) +
		"\n\nBased on the product and materials, analyze the manufacturing processes required." +
		"\nProvide detailed manufacturing insights including steps, tooling, assembly sequence, and complexity."

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      manufacturingSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   2048,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "manufacturing: analyze")
	}

	return repair.Repair(text), nil
}
