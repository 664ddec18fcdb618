package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/repair"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

// maxSuppliers caps the recommendations returned per material.
const maxSuppliers = 3

// SupplierRecommender finds supplier companies for a material and returns
// the best candidates.
type SupplierRecommender struct {
	inv    Invoker
	search perplexity.Client
	models Models
}

// NewSupplierRecommender creates the supplier recommendation agent. search
// may be nil.
func NewSupplierRecommender(inv Invoker, search perplexity.Client, models Models) *SupplierRecommender {
	return &SupplierRecommender{inv: inv, search: search, models: models}
}

// Find returns up to three suppliers for the material, deduplicated by
// company name and ranked by rating, reliability, and price.
func (a *SupplierRecommender) Find(ctx context.Context, materialName, materialType string, quantity float64, unit string, preferredCountries []string) (*model.SupplierResult, error) {
	countries := "None"
	if len(preferredCountries) > 0 {
		countries = strings.Join(preferredCountries, ", ")
	}

	prompt := fmt.Sprintf(
		"Material: %s\nType: %s\nQuantity Needed: %g %s\nPreferred Countries: %s\n\nFind REAL supplier companies who SELL/SUPPLY the MATERIAL %q (the raw material, not finished products). Rank all candidates and return the best ones as JSON.",
		materialName, materialType, quantity, unit, countries, materialName,
	)
	if enrichment := searchContext(ctx, a.search, a.inv, a.models.Text, materialName+" suppliers manufacturers wholesalers pricing MOQ"); enrichment != "" {
		prompt += "\n\nWeb Search Results:\n" + enrichment
	}

	text, err := a.inv.Invoke(ctx, gateway.Request{
		Model:       a.models.Text,
		System:      supplierSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   4096,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "supplier: find")
	}

	raw := repair.Repair(text)
	suppliers := parseSuppliers(raw.List("suppliers"))
	suppliers = DedupeSuppliers(suppliers)
	suppliers = TopSuppliers(suppliers, maxSuppliers)
	if len(suppliers) < maxSuppliers {
		zap.L().Warn("fewer suppliers than target",
			zap.String("material", materialName),
			zap.Int("found", len(suppliers)),
		)
	}

	return &model.SupplierResult{Suppliers: suppliers}, nil
}

func parseSuppliers(entries []any) []model.Supplier {
	out := make([]model.Supplier, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		s := model.Supplier{
			Name:        strField(m, "name", ""),
			Country:     strField(m, "country", ""),
			City:        strField(m, "city", ""),
			Rating:      numField(m, "rating", 0),
			Reliability: numField(m, "reliability", 0),
			UnitPrice:   numField(m, "unitPrice", 0),
			MOQ:         strField(m, "moq", ""),
			LeadTime:    strField(m, "leadTime", ""),
			Website:     strField(m, "website", ""),
			Notes:       strField(m, "notes", ""),
		}
		if s.Name == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DedupeSuppliers removes duplicate companies, comparing trimmed
// case-insensitive names. First occurrence wins.
func DedupeSuppliers(suppliers []model.Supplier) []model.Supplier {
	seen := make(map[string]struct{}, len(suppliers))
	out := make([]model.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// TopSuppliers keeps the n best suppliers, ranked by rating then
// reliability (both descending) then unit price (ascending).
func TopSuppliers(suppliers []model.Supplier, n int) []model.Supplier {
	if len(suppliers) <= n {
		return suppliers
	}
	sorted := make([]model.Supplier, len(suppliers))
	copy(sorted, suppliers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		if sorted[i].Reliability != sorted[j].Reliability {
			return sorted[i].Reliability > sorted[j].Reliability
		}
		return sorted[i].UnitPrice < sorted[j].UnitPrice
	})
	return sorted[:n]
}
