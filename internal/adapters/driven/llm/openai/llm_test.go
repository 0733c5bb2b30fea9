package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func chatResponse(content string, promptTokens, completionTokens int) map[string]any {
	return map[string]any{
		"model": "gpt-4o-mini",
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
		},
	}
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestChat(t *testing.T) {
	var gotReq chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse("hello there", 12, 8))
	})

	result, err := svc.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "Be brief."},
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{
		Parameters: domain.ModelParameters{Temperature: 0.5, MaxTokens: 200, TopP: 0.9},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello there", result.Content)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Equal(t, 12, result.PromptTokens)
	assert.Equal(t, 8, result.CompletionTokens)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, 0.5, gotReq.Temperature)
	assert.Equal(t, 200, gotReq.MaxTokens)
	assert.Equal(t, 0.9, gotReq.TopP)
}

func TestChat_ModelOverride(t *testing.T) {
	var gotReq chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse("ok", 1, 1))
	})

	_, err := svc.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{Model: "gpt-4o"})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotReq.Model)
}

func TestChat_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded", "type": "rate_limit"},
		})
	})

	_, err := svc.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestChat_NoChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := svc.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
	}, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestGenerate_WrapsChat(t *testing.T) {
	var gotReq chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse("done", 1, 1))
	})

	result, err := svc.Generate(context.Background(), "one-shot prompt", driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "done", result.Content)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "one-shot prompt", gotReq.Messages[0].Content)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}
