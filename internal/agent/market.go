package agent

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// defaultTargetMarkets covers major consumer markets across regions, used
// when the caller does not narrow the forecast.
var defaultTargetMarkets = []string{
	"United States", "United Kingdom", "Japan", "Germany", "Australia", "Canada",
	"France", "Italy", "Spain", "Netherlands", "Sweden", "Switzerland",
	"China", "India", "South Korea", "Singapore", "Hong Kong", "Thailand",
	"Brazil", "Mexico", "Argentina", "Chile", "United Arab Emirates", "South Africa",
}

// MarketForecaster estimates demand for the finished product across target
// markets.
type MarketForecaster struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewMarketForecaster creates the market forecast agent. search may be nil.
func NewMarketForecaster(inv Invoker, search perplexity.Client, models Models) *MarketForecaster {
	return &MarketForecaster{inv: inv, search: search, models: models}
}

// Forecast scores each target market for selling the product. Forecast
// entries are normalized: missing scores default to 50 and missing trends to
// stable.
func (a *MarketForecaster) Forecast(ctx context.Context, productName, description string, bomMaterials, targetMarkets []string) (*model.MarketForecastResult, error) {
	if len(targetMarkets) == 0 {
		targetMarkets = defaultTargetMarkets
	}

	webResults := searchContext(ctx, a.search, a.inv, a.models.Text,
		"current consumer demand and market trends for "+productName)
	if webResults == "" {
		webResults = "No specific market data available"
	}

	prompt := "Product Name: " + productName +
		"\nProduct Description: " + description +
		"\nMaterials Used (for context only): " + strings.Join(bomMaterials, ", ") +
		"\nTarget Markets: " + strings.Join(targetMarkets, ", ") +
		"\n\nCurrent Market Data:\n" + webResults +
		"\n\nIMPORTANT: Analyze markets where this FINISHED PRODUCT can be SOLD to consumers, not where to buy materials." +
		"\n\nGenerate realistic forecasts for each target market showing demand for the complete product, pricing opportunities, and growth potential. Return the forecasts as JSON."

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      marketForecastSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "market: forecast")
	}

	raw := repair.Repair(text)
	forecasts := normalizeForecasts(raw.List("forecasts"))
	if len(forecasts) == 0 {
		zap.L().Warn("market forecast produced no entries", zap.String("product", productName))
	}

	return &model.MarketForecastResult{Forecasts: forecasts}, nil
}

func normalizeForecasts(entries []any) []model.MarketForecast {
	out := make([]model.MarketForecast, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		f := model.MarketForecast{
			Country:       strField(m, "country", "Unknown"),
			Demand:        numField(m, "demand", 50),
			Competition:   numField(m, "competition", 50),
			Price:         numField(m, "price", 50),
			Growth:        numField(m, "growth", 50),
			MarketSize:    strField(m, "marketSize", ""),
			AvgPrice:      strField(m, "avgPrice", ""),
			GrowthPercent: strField(m, "growthPercent", ""),
			Trend:         strField(m, "trend", model.TrendStable),
		}
		if city, _ := m["city"].(string); city != "" {
			f.City = &city
		}
		out = append(out, f)
	}
	return out
}

// strField returns the string under key, or def.
func strField(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

// numField returns the number under key, coercing numeric strings, or def.
func numField(m map[string]any, key string, def float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}
