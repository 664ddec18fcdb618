package pipeline

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/sourceflow-ai/bom-cli/internal/model"
)

// DefaultCostTolerance is the relative error allowed between a reported
// total cost and unit_cost * quantity before the reported value is
// overridden.
const DefaultCostTolerance = 0.05

var numberPattern = regexp.MustCompile(`[\d.]+`)

// ParseQuantity coerces a loose quantity value into a float. Strings with
// embedded numbers ("2.5 meters") yield the first number; anything else
// yields 0.
func ParseQuantity(v any) float64 {
	switch q := v.(type) {
	case float64:
		return q
	case int:
		return float64(q)
	case string:
		if match := numberPattern.FindString(q); match != "" {
			if f, err := strconv.ParseFloat(match, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func parseCost(v any) float64 {
	switch c := v.(type) {
	case float64:
		return c
	case int:
		return float64(c)
	case string:
		if f, err := strconv.ParseFloat(c, 64); err == nil {
			return f
		}
	}
	return 0
}

// firstOf returns the first present key's value from m.
func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Reconcile turns loose category data from the analysis stages into typed
// BOM categories. Quantities get the yield buffer applied; total costs are
// recomputed whenever they are absent, zero, or off by more than the cost
// tolerance. Categories that end up with no items are dropped. The second
// return value is the summed total cost.
func Reconcile(categories []any, yieldBuffer float64) ([]model.Category, float64) {
	out := make([]model.Category, 0, len(categories))
	var totalCost float64

	for _, c := range categories {
		cat, ok := c.(map[string]any)
		if !ok {
			continue
		}

		items, _ := cat["items"].([]any)
		typed := make([]model.Item, 0, len(items))
		for _, it := range items {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}

			qty := ParseQuantity(firstOf(item, "estimated_quantity", "quantity"))
			qty *= 1 + yieldBuffer/100

			unitCost := parseCost(firstOf(item, "unit_cost", "unitCost"))
			total := parseCost(firstOf(item, "total_cost", "totalCost"))

			if unitCost > 0 && qty > 0 {
				calculated := unitCost * qty
				if total == 0 {
					total = calculated
				} else if relError(total, calculated) > DefaultCostTolerance {
					zap.L().Debug("total cost outside tolerance, recalculating",
						zap.String("item", stringOr(item["name"], "unknown")),
						zap.Float64("reported", total),
						zap.Float64("calculated", calculated),
					)
					total = calculated
				}
			}

			specs, _ := item["specifications"].(map[string]any)
			typed = append(typed, model.Item{
				Name:           stringOr(item["name"], ""),
				Type:           stringOr(item["type"], "MATERIAL"),
				Quantity:       qty,
				Unit:           stringOr(item["unit"], "piece"),
				UnitCost:       unitCost,
				TotalCost:      total,
				Specifications: specs,
				Source:         stringOr(firstOf(item, "source", "price_source"), "Unknown"),
			})
			totalCost += total
		}

		if len(typed) == 0 {
			continue
		}
		out = append(out, model.Category{
			Name:  stringOr(cat["category"], "Uncategorized"),
			Items: typed,
		})
	}

	return out, totalCost
}

func relError(reported, calculated float64) float64 {
	denom := calculated
	if denom < 0.01 {
		denom = 0.01
	}
	diff := reported - calculated
	if diff < 0 {
		diff = -diff
	}
	return diff / denom
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}
