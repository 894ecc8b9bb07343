package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
)

func TestOpenAIProviderGenerateCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "translate this", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  translated  "}}]
		}`))
	}))
	defer srv.Close()

	p, err := NewProvider(config.LLMConfig{
		Provider: ProviderOpenAI,
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1/",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.GetProviderType())

	out, err := p.GenerateCompletion(context.Background(), "translate this")
	require.NoError(t, err)
	assert.Equal(t, "translated", out)
}

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{Provider: "dashscope", Model: "qwen"})
	assert.Error(t, err)

	_, err = NewProvider(config.LLMConfig{Provider: ProviderOpenAI})
	assert.Error(t, err)
}
