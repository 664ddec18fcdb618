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

// ContactFinder locates business contact emails for supplier companies.
type ContactFinder struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewContactFinder creates the supplier contact agent. search may be nil.
func NewContactFinder(inv Invoker, search perplexity.Client, models Models) *ContactFinder {
	return &ContactFinder{inv: inv, search: search, models: models}
}

// Find returns contact info for the supplier. It never fails: when the
// lookup is unavailable or yields nothing, a synthesized sales@ address on
// a country-appropriate domain is returned with Found false.
func (a *ContactFinder) Find(ctx context.Context, supplierName, city, country, website string) *model.ContactInfo {
	site := website
	if site == "" {
		site = "Not provided"
	}
	prompt := "Supplier: " + supplierName +
		"\nLocation: " + city + ", " + country +
		"\nWebsite: " + site +
		"\n\nExtract the business contact email address for this supplier. If not found directly, generate a realistic email following the company's email pattern. Return the contact information as JSON."

	if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, supplierName+" "+country+" contact email"); enrichment != "" {
		prompt += "\n\nWeb Search Results:\n" + enrichment
	}

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      contactSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   256,
		JSONOnly:    true,
	})
	if err != nil {
		zap.L().Warn("contact lookup failed, synthesizing",
			zap.String("supplier", supplierName),
			zap.Error(err),
		)
		return fallbackContact(supplierName, country, website)
	}

	raw := repair.Repair(text)
	info := &model.ContactInfo{
		ContactEmail: strField(raw, "contactEmail", ""),
		Website:      strField(raw, "website", website),
	}
	if found, ok := raw["found"].(bool); ok {
		info.Found = found
	}
	if info.ContactEmail == "" {
		return fallbackContact(supplierName, country, website)
	}
	return info
}

// fallbackContact synthesizes a plausible sales address from the company
// name, using a country TLD for East Asian suppliers.
func fallbackContact(supplierName, country, website string) *model.ContactInfo {
	domain := strings.ToLower(supplierName)
	for _, r := range []string{" ", ".", ",", "-"} {
		domain = strings.ReplaceAll(domain, r, "")
	}

	switch strings.ToLower(country) {
	case "taiwan", "china":
		domain += ".com.tw"
	case "japan":
		domain += ".co.jp"
	default:
		domain += ".com"
	}

	info := &model.ContactInfo{
		ContactEmail: "sales@" + domain,
		Website:      website,
		Found:        false,
	}
	if info.Website == "" {
		info.Website = "https://www." + domain
	}
	return info
}
