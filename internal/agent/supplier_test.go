package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sourceflow-ai/bom-cli/internal/model"
)

func TestDedupeSuppliersCaseInsensitive(t *testing.T) {
	in := []model.Supplier{
		{Name: "Acme Co"},
		{Name: "  acme co "},
		{Name: "Beta Inc"},
		{Name: ""},
	}

	out := DedupeSuppliers(in)
	require.Len(t, out, 2)
	assert.Equal(t, "Acme Co", out[0].Name)
	assert.Equal(t, "Beta Inc", out[1].Name)
}

func TestTopSuppliersRanking(t *testing.T) {
	in := []model.Supplier{
		{Name: "MidRating", Rating: 4.0, Reliability: 90, UnitPrice: 5},
		{Name: "TopRating", Rating: 4.8, Reliability: 80, UnitPrice: 9},
		{Name: "Cheap", Rating: 4.0, Reliability: 90, UnitPrice: 3},
		{Name: "Unreliable", Rating: 4.0, Reliability: 50, UnitPrice: 1},
		{Name: "Worst", Rating: 2.0, Reliability: 40, UnitPrice: 2},
	}

	out := TopSuppliers(in, 3)
	require.Len(t, out, 3)
	assert.Equal(t, "TopRating", out[0].Name)
	// Equal rating and reliability fall through to price.
	assert.Equal(t, "Cheap", out[1].Name)
	assert.Equal(t, "MidRating", out[2].Name)
}

func TestTopSuppliersKeepsAllWhenFew(t *testing.T) {
	in := []model.Supplier{{Name: "Only"}}
	out := TopSuppliers(in, 3)
	assert.Len(t, out, 1)
}

func TestSupplierFindDedupesAndCaps(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return(`{
		"suppliers": [
			{"name": "Acme Textiles", "country": "Japan", "rating": 4.8, "reliability": 95, "unitPrice": 8.2},
			{"name": "acme textiles", "country": "Japan", "rating": 4.8, "reliability": 95, "unitPrice": 8.2},
			{"name": "Kaihara Denim", "country": "Japan", "rating": 4.9, "reliability": 97, "unitPrice": 9.1},
			{"name": "Cone Mills", "country": "United States", "rating": 4.5, "reliability": 90, "unitPrice": 7.0},
			{"name": "Budget Fabrics", "country": "China", "rating": 3.2, "reliability": 60, "unitPrice": 2.1}
		]
	}`, nil)

	a := NewSupplierRecommender(inv, nil, testModels)
	result, err := a.Find(context.Background(), "14oz Selvedge Denim", "Primary Fabric", 2.5, "meter", nil)

	require.NoError(t, err)
	require.Len(t, result.Suppliers, 3)
	assert.Equal(t, "Kaihara Denim", result.Suppliers[0].Name)
	assert.Equal(t, "Acme Textiles", result.Suppliers[1].Name)
	assert.Equal(t, "Cone Mills", result.Suppliers[2].Name)
}

func TestContactFinderFallbackTLDs(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Taiwan", "sales@acmehardware.com.tw"},
		{"China", "sales@acmehardware.com.tw"},
		{"Japan", "sales@acmehardware.co.jp"},
		{"Germany", "sales@acmehardware.com"},
	}
	for _, tt := range tests {
		info := fallbackContact("Acme Hardware", tt.country, "")
		assert.Equal(t, tt.want, info.ContactEmail, tt.country)
		assert.False(t, info.Found)
		assert.NotEmpty(t, info.Website)
	}
}

func TestContactFinderSynthesizesOnError(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return("", assert.AnError)

	a := NewContactFinder(inv, nil, testModels)
	info := a.Find(context.Background(), "Kaihara Denim", "Fukuyama", "Japan", "https://www.kaihara-denim.com")

	assert.Equal(t, "sales@kaiharadenim.co.jp", info.ContactEmail)
	assert.Equal(t, "https://www.kaihara-denim.com", info.Website)
	assert.False(t, info.Found)
}

func TestContactFinderParsesResult(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).
		Return(`{"contactEmail": "info@conedenim.com", "website": "https://www.conedenim.com", "found": true}`, nil)

	a := NewContactFinder(inv, nil, testModels)
	info := a.Find(context.Background(), "Cone Mills", "Greensboro", "United States", "")

	assert.Equal(t, "info@conedenim.com", info.ContactEmail)
	assert.True(t, info.Found)
}
