package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// defaultCampaignMarkets is used when the caller does not specify target
// markets.
var defaultCampaignMarkets = []string{"United States", "United Kingdom"}

// CampaignPlanner recommends marketing campaigns for a product.
type CampaignPlanner struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewCampaignPlanner creates the marketing campaigns agent. search may be
// nil.
func NewCampaignPlanner(inv Invoker, search perplexity.Client, models Models) *CampaignPlanner {
	return &CampaignPlanner{inv: inv, search: search, models: models}
}

// Plan returns campaign recommendations across platforms. Model failures
// degrade to a two-campaign baseline.
func (a *CampaignPlanner) Plan(ctx context.Context, productName, description string, targetMarkets []string) *model.CampaignsResult {
	if len(targetMarkets) == 0 {
		targetMarkets = defaultCampaignMarkets
	}

	webResults := searchContext(ctx, a.search, a.inv, a.models.Text,
		"current marketing trends and strategies for "+productName)
	if webResults == "" {
		webResults = "No specific trend data available"
	}

	prompt := "Product Name: " + productName +
		"\nProduct Description: " + description +
		"\nTarget Markets: " + strings.Join(targetMarkets, ", ") +
		"\n\nCurrent Marketing Trends:\n" + webResults +
		"\n\nGenerate realistic marketing campaign recommendations across different platforms. Return the campaigns as JSON."

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      campaignsSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   2048,
		JSONOnly:    true,
	})
	if err != nil {
		zap.L().Warn("campaign planning failed, using baseline campaigns",
			zap.String("product", productName),
			zap.Error(err),
		)
		return baselineCampaigns(productName)
	}

	raw := repair.Repair(text)
	var campaigns []model.Campaign
	for _, e := range raw.List("campaigns") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		campaigns = append(campaigns, model.Campaign{
			Platform:   strField(m, "platform", ""),
			Name:       strField(m, "name", ""),
			Budget:     strField(m, "budget", ""),
			Reach:      strField(m, "reach", ""),
			Engagement: strField(m, "engagement", ""),
			ROI:        strField(m, "roi", ""),
			Status:     strField(m, "status", "draft"),
			Progress:   int(numField(m, "progress", 0)),
		})
	}
	if len(campaigns) == 0 {
		return baselineCampaigns(productName)
	}
	return &model.CampaignsResult{Campaigns: campaigns}
}

func baselineCampaigns(productName string) *model.CampaignsResult {
	return &model.CampaignsResult{
		Campaigns: []model.Campaign{
			{
				Platform:   "Instagram",
				Name:       productName + " Launch",
				Budget:     "$3,000",
				Reach:      "30K",
				Engagement: "4.5%",
				ROI:        "250%",
				Status:     "active",
				Progress:   50,
			},
			{
				Platform:   "Facebook",
				Name:       productName + " Awareness",
				Budget:     "$2,500",
				Reach:      "45K",
				Engagement: "3.8%",
				ROI:        "180%",
				Status:     "active",
				Progress:   40,
			},
		},
	}
}
