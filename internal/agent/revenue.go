package agent

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// defaultRevenueMarkets is used when the caller does not narrow the
// projection.
var defaultRevenueMarkets = []string{"United States", "United Kingdom", "Japan", "Germany"}

// projectionMonths is the horizon of a revenue projection.
const projectionMonths = 8

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// RevenueProjector generates monthly revenue projections from BOM cost and
// market data.
type RevenueProjector struct {
	inv    Invoker
	search perplexity.Client
	models Models
	now    func() time.Time
}

// NewRevenueProjector creates the revenue projection agent. search may be
// nil.
func NewRevenueProjector(inv Invoker, search perplexity.Client, models Models) *RevenueProjector {
	return &RevenueProjector{inv: inv, search: search, models: models, now: time.Now}
}

// Project returns eight months of revenue projections starting from the
// current month. When the model produces nothing usable, a deterministic
// projection from typical markup and seasonality is returned instead.
func (a *RevenueProjector) Project(ctx context.Context, productName, description string, bomCost float64, targetMarkets []string) *model.RevenueProjectionResult {
	if len(targetMarkets) == 0 {
		targetMarkets = defaultRevenueMarkets
	}

	prompt := fmt.Sprintf(
		"Product Name: %s\nProduct Description: %s\nBOM Cost: $%.2f\nTarget Markets: %s",
		productName, description, bomCost, strings.Join(targetMarkets, ", "),
	)
	webResults := searchContext(ctx, a.search, a.inv, a.models.Text,
		"average selling price for "+productName+" in "+strings.Join(targetMarkets, ", "))
	if webResults == "" {
		webResults = "No specific market data available"
	}
	prompt += "\n\nMarket Research Data:\n" + webResults +
		"\n\nGenerate realistic monthly revenue projections for the next 8 months, considering markup, demand trends, and seasonal variations. Return the projections as JSON."

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      revenueSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.6,
		MaxTokens:   2048,
		JSONOnly:    true,
	})
	if err != nil {
		zap.L().Warn("revenue projection failed, using seasonal baseline",
			zap.String("product", productName),
			zap.Error(err),
		)
		return a.baseline(bomCost)
	}

	raw := repair.Repair(text)
	var projections []model.MonthProjection
	for _, e := range raw.List("projections") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		projections = append(projections, model.MonthProjection{
			Month:    strField(m, "month", ""),
			Revenue:  numField(m, "revenue", 0),
			Cost:     numField(m, "cost", 0),
			Profit:   numField(m, "profit", 0),
			Units:    int(numField(m, "units", 0)),
			AvgPrice: numField(m, "avgPrice", 0),
		})
	}
	if len(projections) == 0 {
		return a.baseline(bomCost)
	}
	return &model.RevenueProjectionResult{Projections: projections}
}

// baseline builds a deterministic projection: 3x BOM markup, 100 base units,
// 5% monthly growth, a 1.3x holiday season lift and 1.1x summer lift.
func (a *RevenueProjector) baseline(bomCost float64) *model.RevenueProjectionResult {
	avgPrice := bomCost * 3
	const baseUnits = 100.0

	currentMonth := int(a.now().Month())
	result := &model.RevenueProjectionResult{}
	for i := 0; i < projectionMonths; i++ {
		monthIdx := (currentMonth + i - 1) % 12

		growthFactor := 1 + float64(i)*0.05
		seasonalFactor := 1.0
		switch monthIdx {
		case 10, 11, 0: // holiday season
			seasonalFactor = 1.3
		case 5, 6, 7: // summer
			seasonalFactor = 1.1
		}

		units := int(baseUnits * growthFactor * seasonalFactor)
		revenue := float64(units) * avgPrice
		cost := float64(units) * bomCost

		result.Projections = append(result.Projections, model.MonthProjection{
			Month:    monthNames[monthIdx],
			Revenue:  math.Round(revenue*100) / 100,
			Cost:     math.Round(cost*100) / 100,
			Profit:   math.Round((revenue-cost)*100) / 100,
			Units:    units,
			AvgPrice: math.Round(avgPrice*100) / 100,
		})
	}
	return result
}
