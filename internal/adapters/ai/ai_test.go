package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"strategist/internal/adapters/config"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

func newOpenAIForTest(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p := NewOpenAIProvider("test-key", 5*time.Second, 0, 0)
	p.baseURL = ts.URL
	return p
}

func TestOpenAIChat(t *testing.T) {
	var gotReq openAIRequest
	var gotAuth string

	p := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{
					"message":       map[string]string{"role": "assistant", "content": `{"directional_signal":0.5}`},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
		})
	})

	resp, err := p.Chat(context.Background(), ChatRequest{
		Model: "gpt-4o-mini",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a technical analyst."},
			{Role: RoleUser, Content: "Analyze GOOGL"},
		},
		Temperature:    0.3,
		ResponseSchema: &genai.Schema{Type: "OBJECT"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)

	assert.Equal(t, `{"directional_signal":0.5}`, resp.Content)
	assert.Equal(t, 150, resp.Usage.TotalTokens)
}

func TestOpenAIChat_APIError(t *testing.T) {
	p := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached", "type": "rate_limit_error"},
		})
	})

	_, err := p.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestOpenAIChat_EmptyCompletion(t *testing.T) {
	p := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "chatcmpl-2", "choices": []interface{}{}})
	})

	_, err := p.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, errors.ErrEmptyCompletion)
}

func TestOpenAIChat_NotConfigured(t *testing.T) {
	p := NewOpenAIProvider("", time.Second, 0, 0)
	_, err := p.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, errors.ErrProviderNotConfigured)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	provider := NewOpenAIProvider("key", time.Second, 0, 0)

	require.NoError(t, registry.Register(provider))
	assert.Error(t, registry.Register(provider), "duplicate registration must fail")

	got, err := registry.Get(ProviderNameOpenAI)
	require.NoError(t, err)
	assert.Equal(t, ProviderNameOpenAI, got.Name())

	_, err = registry.Get(ProviderNameGoogle)
	assert.ErrorIs(t, err, errors.ErrProviderNotConfigured)

	assert.Len(t, registry.List(), 1)
}

func TestNewRegistryFromConfig(t *testing.T) {
	log := logger.Get()

	_, err := NewRegistryFromConfig(context.Background(), config.AIConfig{}, log)
	assert.ErrorIs(t, err, errors.ErrProviderNotConfigured)

	registry, err := NewRegistryFromConfig(context.Background(), config.AIConfig{OpenAIKey: "key"}, log)
	require.NoError(t, err)
	assert.Len(t, registry.List(), 1)
}

func TestDefaultProvider_FallsBack(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewOpenAIProvider("key", time.Second, 0, 0)))

	// Default points at gemini, which has no key; any registered
	// provider is better than failing outright.
	provider, err := DefaultProvider(registry, config.AIConfig{DefaultProvider: "gemini"})
	require.NoError(t, err)
	assert.Equal(t, ProviderNameOpenAI, provider.Name())
}
