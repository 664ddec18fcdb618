package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 2.5, ParseQuantity(2.5))
	assert.Equal(t, 12.0, ParseQuantity(12))
	assert.Equal(t, 2.5, ParseQuantity("2.5 meters"))
	assert.Equal(t, 0.45, ParseQuantity("approx 0.45"))
	assert.Equal(t, 0.0, ParseQuantity("unknown"))
	assert.Equal(t, 0.0, ParseQuantity(nil))
}

func TestReconcileAppliesYieldBuffer(t *testing.T) {
	cats := []any{
		map[string]any{
			"category": "Shell Fabrication",
			"items": []any{
				map[string]any{
					"name":               "14oz Selvedge Denim",
					"type":               "Primary Fabric",
					"estimated_quantity": 2.0,
					"unit":               "meter",
					"unit_cost":          8.50,
				},
			},
		},
	}

	typed, total := Reconcile(cats, 10)
	require.Len(t, typed, 1)
	require.Len(t, typed[0].Items, 1)

	item := typed[0].Items[0]
	assert.InDelta(t, 2.2, item.Quantity, 1e-9)
	assert.InDelta(t, 8.50*2.2, item.TotalCost, 1e-9)
	assert.InDelta(t, 8.50*2.2, total, 1e-9)
}

func TestReconcileZeroBufferKeepsQuantities(t *testing.T) {
	cats := []any{
		map[string]any{
			"category": "Hardware",
			"items": []any{
				map[string]any{"name": "Rivet", "quantity": 6.0, "unit_cost": 0.15, "total_cost": 0.90},
			},
		},
	}

	typed, total := Reconcile(cats, 0)
	require.Len(t, typed, 1)
	assert.Equal(t, 6.0, typed[0].Items[0].Quantity)
	assert.InDelta(t, 0.90, total, 1e-9)
}

func TestReconcileOverridesTotalOutsideTolerance(t *testing.T) {
	cats := []any{
		map[string]any{
			"category": "Notions",
			"items": []any{
				// Reported total is way off unit_cost * quantity.
				map[string]any{"name": "Thread", "quantity": 1.0, "unit_cost": 2.0, "total_cost": 10.0},
			},
		},
	}

	typed, _ := Reconcile(cats, 0)
	require.Len(t, typed, 1)
	assert.InDelta(t, 2.0, typed[0].Items[0].TotalCost, 1e-9)
}

func TestReconcileKeepsTotalWithinTolerance(t *testing.T) {
	cats := []any{
		map[string]any{
			"category": "Notions",
			"items": []any{
				map[string]any{"name": "Thread", "quantity": 1.0, "unit_cost": 2.0, "total_cost": 2.04},
			},
		},
	}

	typed, _ := Reconcile(cats, 0)
	assert.Equal(t, 2.04, typed[0].Items[0].TotalCost)
}

func TestReconcileStringQuantitiesAndCosts(t *testing.T) {
	cats := []any{
		map[string]any{
			"category": "Fabric",
			"items": []any{
				map[string]any{"name": "Canvas", "estimated_quantity": "1.5 meters", "unit_cost": "4.00"},
			},
		},
	}

	typed, total := Reconcile(cats, 0)
	require.Len(t, typed, 1)
	assert.Equal(t, 1.5, typed[0].Items[0].Quantity)
	assert.InDelta(t, 6.0, total, 1e-9)
}

func TestReconcileDropsEmptyCategories(t *testing.T) {
	cats := []any{
		map[string]any{"category": "Empty", "items": []any{}},
		map[string]any{
			"category": "Kept",
			"items": []any{
				map[string]any{"name": "Bolt", "quantity": 1.0, "unit_cost": 0.5},
			},
		},
		"not a category",
	}

	typed, _ := Reconcile(cats, 0)
	require.Len(t, typed, 1)
	assert.Equal(t, "Kept", typed[0].Name)
}

func TestReconcileDefaults(t *testing.T) {
	cats := []any{
		map[string]any{
			"items": []any{
				map[string]any{"name": "Mystery"},
			},
		},
	}

	typed, total := Reconcile(cats, 10)
	require.Len(t, typed, 1)
	assert.Equal(t, "Uncategorized", typed[0].Name)
	assert.Equal(t, "MATERIAL", typed[0].Items[0].Type)
	assert.Equal(t, "piece", typed[0].Items[0].Unit)
	assert.Equal(t, "Unknown", typed[0].Items[0].Source)
	assert.Equal(t, 0.0, total)
}
