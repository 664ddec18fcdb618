package agent

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sourceflow-ai/bom-cli/internal/gateway"
	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/pkg/perplexity"
)

type mockInvoker struct{ mock.Mock }

func (m *mockInvoker) Invoke(ctx context.Context, req gateway.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockSearch struct{ mock.Mock }

func (m *mockSearch) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

func searchResponse(content string) *perplexity.ChatCompletionResponse {
	return &perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{
			{Message: perplexity.Message{Role: "assistant", Content: content}},
		},
	}
}

var testModels = Models{Vision: "vision-model", Text: "text-model"}

func TestSearchContextPrefersWebSearch(t *testing.T) {
	search := &mockSearch{}
	search.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(searchResponse("denim prices are up"), nil)

	got := searchContext(context.Background(), search, &mockInvoker{}, "text-model", "denim prices")
	assert.Equal(t, "denim prices are up", got)
}

func TestSearchContextFallsBackToModel(t *testing.T) {
	search := &mockSearch{}
	search.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(nil, eris.New("perplexity: unexpected status 503"))

	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(req gateway.Request) bool {
		return req.Model == "text-model" && req.MaxTokens == 512
	})).Return("synthesized market info", nil)

	got := searchContext(context.Background(), search, inv, "text-model", "denim prices")
	assert.Equal(t, "synthesized market info", got)
}

func TestSearchContextEmptyWhenAllUnavailable(t *testing.T) {
	search := &mockSearch{}
	search.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(nil, eris.New("down"))

	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return("", eris.New("also down"))

	got := searchContext(context.Background(), search, inv, "text-model", "anything")
	assert.Equal(t, "", got)
}

func TestProductAnalyzerRequiresImages(t *testing.T) {
	a := NewProductAnalyzer(&mockInvoker{}, testModels, 3)
	_, err := a.Analyze(context.Background(), model.AnalysisRequest{})
	require.Error(t, err)
}

func TestProductAnalyzerRetriesUnusableOutput(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).
		Return("not json at all", nil).Once()
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(req gateway.Request) bool {
		return req.Model == "vision-model" && req.JSONOnly
	})).Return(`{"product_category": "Textile", "detected_components": [{"name": "Panel"}]}`, nil).Once()

	a := NewProductAnalyzer(inv, testModels, 3)
	result, err := a.Analyze(context.Background(), model.AnalysisRequest{
		Images: []model.ImageBlob{{Data: []byte{0xFF}}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Textile", result["product_category"])
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestProductAnalyzerFailsAfterRetries(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return("garbage", nil)

	a := NewProductAnalyzer(inv, testModels, 3)
	_, err := a.Analyze(context.Background(), model.AnalysisRequest{
		Images: []model.ImageBlob{{Data: []byte{0xFF}}},
	})

	require.Error(t, err)
	inv.AssertNumberOfCalls(t, "Invoke", 3)
}

func TestMaterialAnalyzerReturnsCategories(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(req gateway.Request) bool {
		return req.Model == "text-model" && req.JSONOnly
	})).Return(`{"categories": [{"category": "Hardware", "items": [{"name": "Rivet"}]}]}`, nil)

	a := NewMaterialAnalyzer(inv, nil, testModels, 3)
	result, err := a.Analyze(context.Background(), model.StageResult{"product_category": ""})

	require.NoError(t, err)
	assert.True(t, result.HasItems("categories"))
}

func TestMaterialAnalyzerFailsWithoutCategories(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return(`{"note": "nothing found"}`, nil)

	a := NewMaterialAnalyzer(inv, nil, testModels, 2)
	_, err := a.Analyze(context.Background(), model.StageResult{})

	require.Error(t, err)
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestPricingAnalyzerFallsBackToMaterialCategories(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return("garbage with no structure", nil)

	material := model.StageResult{
		"categories": []any{
			map[string]any{"category": "Fabric", "items": []any{map[string]any{"name": "Canvas"}}},
		},
	}

	a := NewPricingAnalyzer(inv, nil, testModels, 2)
	result, err := a.Analyze(context.Background(), material)

	require.NoError(t, err)
	assert.Equal(t, material["categories"], result["categories"])
	pa, ok := result["pricing_analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "USD", pa["currency"])
}

func TestManufacturingAnalyzerPropagatesErrors(t *testing.T) {
	inv := &mockInvoker{}
	inv.On("Invoke", mock.Anything, mock.Anything).Return("", eris.New("overloaded"))

	a := NewManufacturingAnalyzer(inv, testModels)
	_, err := a.Analyze(context.Background(), model.StageResult{}, model.StageResult{})
	require.Error(t, err)
}
