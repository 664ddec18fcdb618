package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// PerformanceAnalyzer synthesizes sales, revenue, and margin metrics for a
// set of products.
type PerformanceAnalyzer struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewPerformanceAnalyzer creates the product performance agent. search may
// be nil.
func NewPerformanceAnalyzer(inv Invoker, search perplexity.Client, models Models) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{inv: inv, search: search, models: models}
}

// Analyze returns performance metrics for every product. An empty product
// list yields an empty result; model failures degrade to deterministic
// baseline metrics.
func (a *PerformanceAnalyzer) Analyze(ctx context.Context, products []model.ProductSummary) *model.PerformanceResult {
	if len(products) == 0 {
		return &model.PerformanceResult{Performance: []model.ProductPerformance{}}
	}

	list, err := json.Marshal(products)
	if err != nil {
		return a.baseline(products)
	}
	prompt := fmt.Sprintf(
		"Products:\n%s\n\nGenerate realistic performance metrics (sales, revenue, margin) for all %d products. Return the performance data as JSON.",
		list, len(products),
	)
	if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, "typical sales and margins for "+products[0].Name+" category products"); enrichment != "" {
		prompt += "\n\nMarket Benchmarks:\n" + enrichment
	}

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      performanceSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   2048,
		JSONOnly:    true,
	})
	if err != nil {
		zap.L().Warn("performance analysis failed, using baseline metrics", zap.Error(err))
		return a.baseline(products)
	}

	raw := repair.Repair(text)
	var perf []model.ProductPerformance
	for _, e := range raw.List("performance") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		perf = append(perf, model.ProductPerformance{
			Product: strField(m, "product", "Unknown"),
			Sales:   numField(m, "sales", 0),
			Revenue: numField(m, "revenue", 0),
			Margin:  numField(m, "margin", 0),
		})
	}
	if len(perf) == 0 {
		return a.baseline(products)
	}
	return &model.PerformanceResult{Performance: perf}
}

// baseline produces deterministic metrics staggered per product.
func (a *PerformanceAnalyzer) baseline(products []model.ProductSummary) *model.PerformanceResult {
	result := &model.PerformanceResult{}
	for i, p := range products {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		result.Performance = append(result.Performance, model.ProductPerformance{
			Product: name,
			Sales:   float64(100 + i*50),
			Revenue: float64(20000 + i*10000),
			Margin:  float64(50 + i*5),
		})
	}
	return result
}
