package agent

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// defaultForecastWeeks is used when the caller does not specify a horizon.
const defaultForecastWeeks = 8

// PriceForecaster projects weekly material price trends.
type PriceForecaster struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewPriceForecaster creates the price forecast agent. search may be nil.
func NewPriceForecaster(inv Invoker, search perplexity.Client, models Models) *PriceForecaster {
	return &PriceForecaster{inv: inv, search: search, models: models}
}

// Forecast projects the material's price over the requested number of
// weeks.
func (a *PriceForecaster) Forecast(ctx context.Context, materialName, materialType, unit string, weeks int) (*model.PriceForecastResult, error) {
	if weeks <= 0 {
		weeks = defaultForecastWeeks
	}

	prompt := fmt.Sprintf(
		"Material: %s\nType: %s\nUnit: %s\nWeeks to Forecast: %d\n\nGenerate price forecasts for the next %d weeks with realistic trends and volatility. Return the forecasts as JSON.",
		materialName, materialType, unit, weeks, weeks,
	)
	if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, "current market price and trend for "+materialName+" per "+unit); enrichment != "" {
		prompt += "\n\nCurrent Market Data:\n" + enrichment
	}

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      priceForecastSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.6,
		MaxTokens:   1024,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "priceforecast: forecast")
	}

	raw := repair.Repair(text)
	result := &model.PriceForecastResult{
		Material: materialName,
		Unit:     unit,
		Currency: "USD",
	}
	for i, e := range raw.List("forecasts") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		result.Forecasts = append(result.Forecasts, model.PricePoint{
			Week:  int(numField(m, "week", float64(i+1))),
			Price: numField(m, "price", 0),
		})
	}
	return result, nil
}
