package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSDKMessage(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:         "msg_test_123",
		Model:      "claude-sonnet-4-5-20250929",
		StopReason: "end_turn",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "Hello "},
			{Type: "text", Text: "world"},
		},
		Usage: sdk.Usage{
			InputTokens:  100,
			OutputTokens: 50,
		},
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "msg_test_123", resp.ID)
	assert.Equal(t, "claude-sonnet-4-5-20250929", resp.Model)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "Hello world", resp.Text)
	assert.Equal(t, int64(100), resp.Usage.InputTokens)
	assert.Equal(t, int64(50), resp.Usage.OutputTokens)
}

func TestFromSDKMessage_TruncatedAtBudget(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:         "msg_trunc",
		Model:      "claude-haiku-4-5-20251001",
		StopReason: "max_tokens",
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Text)
	assert.Equal(t, StopReasonMaxTokens, resp.StopReason)
}

func TestToSDKMessagesRoles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: []ContentPart{TextPart("analyze this")}},
		{Role: "assistant", Content: []ContentPart{TextPart("{")}},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestToSDKBlockImageVariants(t *testing.T) {
	urlBlock := toSDKBlock(ContentPart{Image: &ImageSource{URL: "https://example.com/a.jpg"}})
	require.NotNil(t, urlBlock.OfImage)
	assert.NotNil(t, urlBlock.OfImage.Source.OfURL)

	dataBlock := toSDKBlock(ContentPart{Image: &ImageSource{Data: []byte{0xFF, 0xD8}}})
	require.NotNil(t, dataBlock.OfImage)
	require.NotNil(t, dataBlock.OfImage.Source.OfBase64)
	assert.Equal(t, "image/jpeg", string(dataBlock.OfImage.Source.OfBase64.MediaType))

	textBlock := toSDKBlock(TextPart("hello"))
	require.NotNil(t, textBlock.OfText)
	assert.Equal(t, "hello", textBlock.OfText.Text)
}
