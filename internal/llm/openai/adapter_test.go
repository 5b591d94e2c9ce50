package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/shem-api/internal/config"
	"github.com/nulzo/shem-api/internal/llm"
	"github.com/nulzo/shem-api/internal/llm/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatibleComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3-70b-8192", body["model"])
		assert.Equal(t, []interface{}{
			map[string]interface{}{"role": "user", "content": "composed prompt"},
		}, body["messages"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Turn off standby devices to save 5%."},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer server.Close()

	adapter, err := openai.NewAdapter(config.ProviderConfig{
		Name:    "groq",
		Type:    "openai",
		BaseURL: server.URL + "/openai/v1",
	})
	require.NoError(t, err)

	text, err := adapter.Complete(context.Background(), "test-key", "composed prompt")

	require.NoError(t, err)
	assert.Equal(t, "Turn off standby devices to save 5%.", text)
	assert.Equal(t, llm.Groq, adapter.Name())
}

func TestOpenRouterHeadersAndModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://shem.example", r.Header.Get("HTTP-Referer"))

		var body openai.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-3.5-turbo", body.Model)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	adapter, err := openai.NewAdapter(config.ProviderConfig{
		Name:    "openrouter",
		BaseURL: server.URL,
		Headers: map[string]string{"HTTP-Referer": "https://shem.example"},
	})
	require.NoError(t, err)

	text, err := adapter.Complete(context.Background(), "k", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestOpenAICompatibleComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	adapter, err := openai.NewAdapter(config.ProviderConfig{Name: "groq", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = adapter.Complete(context.Background(), "k", "p")

	require.Error(t, err)
	assert.Equal(t, llm.MalformedResponse, llm.KindOf(err))
}

func TestOpenAICompatibleComplete_UpstreamErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	adapter, err := openai.NewAdapter(config.ProviderConfig{Name: "groq", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = adapter.Complete(context.Background(), "k", "p")

	require.Error(t, err)
	assert.Equal(t, llm.TransportFailure, llm.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestNewAdapter_UnknownVendorNeedsConfig(t *testing.T) {
	_, err := openai.NewAdapter(config.ProviderConfig{Name: "custom"})
	assert.Error(t, err)

	p, err := openai.NewAdapter(config.ProviderConfig{Name: "custom", BaseURL: "http://localhost:1234/v1", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderName("custom"), p.Name())
}

func TestExtract_EmptyContentNotOK(t *testing.T) {
	_, ok := openai.Extract(&openai.ChatResponse{Choices: []openai.Choice{
		{Message: &openai.Message{Role: "assistant", Content: ""}},
	}})
	assert.False(t, ok)

	text, ok := openai.Extract(&openai.ChatResponse{Choices: []openai.Choice{
		{Message: &openai.Message{Role: "assistant", Content: "Lower the thermostat."}},
	}})
	assert.True(t, ok)
	assert.Equal(t, "Lower the thermostat.", text)
}
