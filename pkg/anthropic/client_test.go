package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestCreateMessage_MockClient(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	req := MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 1024,
		System:    BuildCachedSystemBlocks("rubric"),
		Messages:  []Message{{Role: "user", Content: "Score Trinity River Authority"}},
	}
	mc.On("CreateMessage", ctx, req).Return(&MessageResponse{
		ID:         "msg_1",
		Content:    []ContentBlock{{Type: "text", Text: `{"score": 91}`}},
		StopReason: "end_turn",
	}, nil)

	resp, err := mc.CreateMessage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 91}`, resp.Text())
	mc.AssertExpectations(t)
}

func TestCreateMessage_MockClientError(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	mc.On("CreateMessage", ctx, mock.Anything).Return(nil, errors.New("overloaded"))

	resp, err := mc.CreateMessage(ctx, MessageRequest{})
	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestMessageResponse_Text(t *testing.T) {
	tests := []struct {
		name string
		resp *MessageResponse
		want string
	}{
		{name: "nil", resp: nil, want: ""},
		{name: "empty", resp: &MessageResponse{}, want: ""},
		{
			name: "joins text blocks",
			resp: &MessageResponse{Content: []ContentBlock{
				{Type: "text", Text: `{"score":`},
				{Type: "text", Text: ` 80}`},
			}},
			want: `{"score": 80}`,
		},
		{
			name: "skips non-text blocks",
			resp: &MessageResponse{Content: []ContentBlock{
				{Type: "thinking", Text: "hmm"},
				{Type: "text", Text: "ok"},
			}},
			want: "ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Text())
		})
	}
}

func TestNewMessageResponse(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:           "msg_test_123",
		Model:        "claude-haiku-4-5-20251001",
		StopReason:   "end_turn",
		StopSequence: "STOP",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "Hello world"},
			{Type: "text", Text: "Second block"},
		},
		Usage: sdk.Usage{
			InputTokens:              100,
			OutputTokens:             50,
			CacheCreationInputTokens: 2000,
			CacheReadInputTokens:     3000,
		},
	}

	resp := newMessageResponse(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "msg_test_123", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "STOP", resp.StopSequence)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, "Hello worldSecond block", resp.Text())
	assert.Equal(t, int64(2000), resp.Usage.CacheCreationInputTokens)
	assert.Equal(t, int64(3000), resp.Usage.CacheReadInputTokens)
}

func TestMessageRequest_Params(t *testing.T) {
	temp := 0.3
	req := MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 1024,
		Messages: []Message{
			{Role: "user", Content: "Score TRA"},
			{Role: "assistant", Content: "{"},
			{Role: "unknown", Content: "text"},
		},
		System: []SystemBlock{
			{Text: "plain"},
			{Text: "cached", CacheControl: &CacheControl{TTL: "1h"}},
			{Text: "cached default", CacheControl: &CacheControl{}},
		},
		Temperature: &temp,
	}

	p := req.params()
	assert.Equal(t, sdk.Model("claude-haiku-4-5-20251001"), p.Model)
	assert.Equal(t, int64(1024), p.MaxTokens)

	require.Len(t, p.Messages, 3)
	assert.Equal(t, sdk.MessageParamRoleUser, p.Messages[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, p.Messages[1].Role)
	assert.Equal(t, sdk.MessageParamRoleUser, p.Messages[2].Role)

	require.Len(t, p.System, 3)
	assert.Equal(t, "plain", p.System[0].Text)
	assert.Equal(t, sdk.CacheControlEphemeralTTL("1h"), p.System[1].CacheControl.TTL)
	assert.Equal(t, "cached default", p.System[2].Text)

	assert.Empty(t, MessageRequest{}.params().Messages)
	assert.Empty(t, MessageRequest{}.params().System)
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	assert.NotNil(t, NewClient("test-key"))
}

func TestEstimateCost_Haiku(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 6.00, u.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
}

func TestEstimateCost_Sonnet(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.00, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
}

func TestEstimateCost_WithCache(t *testing.T) {
	u := TokenUsage{
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}
	// write: 3.00 * 1.25, read: 3.00 * 0.1
	assert.InDelta(t, 3.75+0.30, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1000, OutputTokens: 1000}
	assert.Equal(t, 0.0, u.EstimateCost("gpt-4"))
}

func TestEstimateCost_ZeroTokens(t *testing.T) {
	assert.Equal(t, 0.0, TokenUsage{}.EstimateCost("claude-haiku-4-5-20251001"))
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	u := TokenUsage{InputTokens: 500, OutputTokens: 120}
	assert.NotPanics(t, func() { u.LogCost("claude-haiku-4-5-20251001", "Trinity River Authority") })
}
