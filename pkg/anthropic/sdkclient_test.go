package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messageServer replies to /v1/messages with text and usage, recording the
// decoded request body and API key.
type messageServer struct {
	*httptest.Server
	body map[string]any
	key  string
}

func newMessageServer(t *testing.T, status int, reply map[string]any) *messageServer {
	t.Helper()
	ms := &messageServer{}
	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		ms.key = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&ms.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(reply) //nolint:errcheck
	}))
	t.Cleanup(ms.Close)
	return ms
}

func scoreReply(text string, usage map[string]any) map[string]any {
	return map[string]any{
		"id":          "msg_score",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       usage,
	}
}

func TestSDKClient_CreateMessage(t *testing.T) {
	ms := newMessageServer(t, http.StatusOK, scoreReply(`{"score": 88, "tier": 1}`, map[string]any{
		"input_tokens":                420,
		"output_tokens":               37,
		"cache_creation_input_tokens": 5000,
		"cache_read_input_tokens":     0,
	}))

	temp := 0.3
	client := NewClient("key-123", option.WithBaseURL(ms.URL))
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:       "claude-haiku-4-5-20251001",
		MaxTokens:   1024,
		System:      BuildCachedSystemBlocks("Score water districts"),
		Messages:    []Message{{Role: "user", Content: "District: Trinity River Authority"}},
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "msg_score", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, `{"score": 88, "tier": 1}`, resp.Text())
	assert.Equal(t, int64(420), resp.Usage.InputTokens)
	assert.Equal(t, int64(5000), resp.Usage.CacheCreationInputTokens)

	assert.Equal(t, "key-123", ms.key)
	assert.InDelta(t, 0.3, ms.body["temperature"], 1e-9)
	system, ok := ms.body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	block := system[0].(map[string]any)
	assert.Equal(t, "Score water districts", block["text"])
	assert.Contains(t, block, "cache_control")
}

func TestSDKClient_CreateMessage_Error(t *testing.T) {
	ms := newMessageServer(t, http.StatusInternalServerError, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "api_error", "message": "Internal server error"},
	})

	client := NewClient("key-123", option.WithBaseURL(ms.URL))
	_, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 1024,
		Messages:  []Message{{Role: "user", Content: "District: NTMWD"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: create message")
}
