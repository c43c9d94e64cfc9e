package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "extract this"},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[2].Role)
}

func TestFromSDKMessageConcatenatesText(t *testing.T) {
	msg := &sdk.Message{
		ID:    "msg_123",
		Model: "test-model",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "part one "},
			{Type: "tool_use"},
			{Type: "text", Text: "part two"},
		},
	}
	msg.Usage.InputTokens = 10
	msg.Usage.OutputTokens = 20

	resp := fromSDKMessage(msg)
	assert.Equal(t, "msg_123", resp.ID)
	assert.Equal(t, "part one part two", resp.Text)
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(20), resp.Usage.OutputTokens)
}

func TestNewClient(t *testing.T) {
	c := NewClient("test-key")
	require.NotNil(t, c)
}
