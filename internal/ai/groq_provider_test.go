package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AaronJay30/next-hire/internal/config"
	apperrors "github.com/AaronJay30/next-hire/internal/errors"
)

func newTestLogger(t *testing.T) *apperrors.Logger {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func newTestAIConfig(endpoint string) *config.AIConfig {
	return &config.AIConfig{
		Provider: "groq",
		Model:    "test-model",
		Endpoint: endpoint,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	}
}

func TestGroqProviderComplete(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"overallRating\": 8}"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160}
		}`))
	}))
	defer server.Close()

	provider, err := NewGroqProvider(newTestAIConfig(server.URL), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	reply, usage, err := provider.Complete(context.Background(), "analyze this resume")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if reply != `{"overallRating": 8}` {
		t.Errorf("Unexpected reply: %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Unexpected Authorization header: %q", gotAuth)
	}
	if gotBody.Model != "test-model" {
		t.Errorf("Unexpected model in request: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" || gotBody.Messages[0].Content != "analyze this resume" {
		t.Errorf("Unexpected messages in request: %+v", gotBody.Messages)
	}
	if usage == nil {
		t.Fatal("Expected token usage")
	}
	if usage.InputTokens != 120 || usage.OutputTokens != 40 || usage.TotalTokens != 160 {
		t.Errorf("Unexpected token usage: %+v", usage)
	}
}

func TestGroqProviderMissingAPIKey(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	cfg := newTestAIConfig(server.URL)
	cfg.APIKey = ""

	provider, err := NewGroqProvider(cfg, newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Expected *AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeConfig {
		t.Errorf("Expected config error type, got %s", appErr.Type)
	}
	if appErr.Code != apperrors.ErrCodeMissingAPIKey {
		t.Errorf("Expected code %s, got %s", apperrors.ErrCodeMissingAPIKey, appErr.Code)
	}
	if requested {
		t.Error("Expected no upstream request when API key is missing")
	}
}

func TestGroqProviderUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	provider, err := NewGroqProvider(newTestAIConfig(server.URL), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for upstream failure")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Expected *AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeNetwork {
		t.Errorf("Expected network error type, got %s", appErr.Type)
	}
	if appErr.Code != apperrors.ErrCodeUpstreamFailed {
		t.Errorf("Expected code %s, got %s", apperrors.ErrCodeUpstreamFailed, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "429") {
		t.Errorf("Expected status code in message, got %q", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "rate limit exceeded") {
		t.Errorf("Expected upstream body in message, got %q", appErr.Message)
	}
}

func TestGroqProviderSingleAttempt(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewGroqProvider(newTestAIConfig(server.URL), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected exactly one upstream attempt, got %d", attempts)
	}
}

func TestGroqProviderReplyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "message content preferred",
			body:     `{"choices": [{"message": {"content": "primary"}, "text": "legacy"}]}`,
			expected: "primary",
		},
		{
			name:     "legacy text field",
			body:     `{"choices": [{"text": "legacy"}]}`,
			expected: "legacy",
		},
		{
			name:     "empty choices fall back to whole envelope",
			body:     `{"choices": []}`,
			expected: `{"choices": []}`,
		},
		{
			name:     "no choices fall back to whole envelope",
			body:     `{"unexpected": true}`,
			expected: `{"unexpected": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewGroqProvider(newTestAIConfig(server.URL), newTestLogger(t))
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			reply, _, err := provider.Complete(context.Background(), "prompt")
			if err != nil {
				t.Fatalf("Complete failed: %v", err)
			}
			if reply != tt.expected {
				t.Errorf("Reply = %q, expected %q", reply, tt.expected)
			}
		})
	}
}

func TestGroqProviderNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("gateway returned html"))
	}))
	defer server.Close()

	provider, err := NewGroqProvider(newTestAIConfig(server.URL), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = provider.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for non-JSON success body")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Expected *AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeAI {
		t.Errorf("Expected AI error type, got %s", appErr.Type)
	}
}

func TestNewGroqProviderMissingEndpoint(t *testing.T) {
	cfg := newTestAIConfig("")

	_, err := NewGroqProvider(cfg, newTestLogger(t))
	if err == nil {
		t.Fatal("Expected error for missing endpoint")
	}
}

func TestGroqProviderGetModelInfo(t *testing.T) {
	provider, err := NewGroqProvider(newTestAIConfig("http://localhost:0"), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	info := provider.GetModelInfo(context.Background())
	if info.Name != "test-model" {
		t.Errorf("Unexpected model name: %q", info.Name)
	}
	if !info.Available {
		t.Error("Expected model available when API key is configured")
	}
}
