package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sourceflow-ai/bom-cli/internal/model"
	"github.com/sourceflow-ai/bom-cli/internal/resilience"
	"github.com/sourceflow-ai/bom-cli/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1,
	}
}

func TestInvokeReturnsText(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{Text: "hello"}, nil)

	g := New(client, WithRetryConfig(fastRetry()))
	text, err := g.Invoke(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 64})

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestInvokeJSONOnlyRestoresPrefill(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		if len(req.Messages) != 2 {
			return false
		}
		last := req.Messages[1]
		return last.Role == "assistant" && last.Content[0].Text == "{"
	})).Return(&anthropic.MessageResponse{Text: `"categories": []}`}, nil)

	g := New(client, WithRetryConfig(fastRetry()))
	text, err := g.Invoke(context.Background(), Request{
		Model:     "m",
		Prompt:    "p",
		MaxTokens: 64,
		JSONOnly:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"categories": []}`, text)
}

func TestInvokeJSONOnlyAppendsDirective(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.HasPrefix(req.System, "analyst") &&
			strings.Contains(req.System, "valid JSON only")
	})).Return(&anthropic.MessageResponse{Text: `{}`}, nil)

	g := New(client, WithRetryConfig(fastRetry()))
	_, err := g.Invoke(context.Background(), Request{
		Model:     "m",
		System:    "analyst",
		Prompt:    "p",
		MaxTokens: 64,
		JSONOnly:  true,
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestInvokeRetriesRateLimit(t *testing.T) {
	client := &mockClient{}
	rateLimited := resilience.NewClassifiedError(eris.New("anthropic: create message"), 429)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, rateLimited).Twice()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{Text: "ok"}, nil).Once()

	g := New(client, WithRetryConfig(fastRetry()))
	text, err := g.Invoke(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 64})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	client.AssertNumberOfCalls(t, "CreateMessage", 3)
}

func TestInvokeDoesNotRetryPermanent(t *testing.T) {
	client := &mockClient{}
	badRequest := resilience.NewClassifiedError(eris.New("anthropic: create message"), 400)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, badRequest)

	g := New(client, WithRetryConfig(fastRetry()))
	_, err := g.Invoke(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 64})

	require.Error(t, err)
	assert.False(t, resilience.IsTransientServiceError(err))
	client.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestInvokeExhaustionWrapsTransient(t *testing.T) {
	client := &mockClient{}
	serverErr := resilience.NewClassifiedError(eris.New("anthropic: create message"), 503)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, serverErr)

	g := New(client, WithRetryConfig(fastRetry()))
	_, err := g.Invoke(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 64})

	require.Error(t, err)
	assert.True(t, resilience.IsTransientServiceError(err))
	client.AssertNumberOfCalls(t, "CreateMessage", 3)
}

func TestInvokeImagesPrecedePrompt(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		parts := req.Messages[0].Content
		return len(parts) == 2 && parts[0].Image != nil && parts[1].Text == "describe"
	})).Return(&anthropic.MessageResponse{Text: "ok"}, nil)

	g := New(client, WithRetryConfig(fastRetry()))
	_, err := g.Invoke(context.Background(), Request{
		Model:     "m",
		Prompt:    "describe",
		MaxTokens: 64,
		Images: []model.ImageBlob{
			{Data: []byte{0xFF, 0xD8}, MediaType: "image/jpeg"},
		},
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}
