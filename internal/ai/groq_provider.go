package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AaronJay30/next-hire/internal/config"
	apperrors "github.com/AaronJay30/next-hire/internal/errors"
)

// GroqProvider implements AIProvider against an OpenAI-compatible
// chat completions endpoint. Each Complete call is a single upstream
// request; there is no retry on failure.
type GroqProvider struct {
	endpoint       string
	model          string
	apiKey         string
	httpClient     *http.Client
	circuitBreaker *AICircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GroqProvider implements AIProvider
var _ AIProvider = (*GroqProvider)(nil)

// chatMessage is a single message in a chat completions request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the request body for the chat completions endpoint
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatCompletionResponse covers the fields we read from the reply.
// Some deployments return choices[].text instead of choices[].message.content.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// NewGroqProvider creates a new Groq provider instance
func NewGroqProvider(cfg *config.AIConfig, logger *apperrors.Logger) (*GroqProvider, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig,
			"Chat completions endpoint is not configured", nil)
	}

	return &GroqProvider{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		circuitBreaker: NewAICircuitBreaker("groq", cfg, logger),
		logger:         logger,
	}, nil
}

// Complete sends the prompt as a single user message and returns the raw reply text
func (g *GroqProvider) Complete(ctx context.Context, prompt string) (string, *TokenUsage, error) {
	tracer := otel.Tracer("nexthire.ai.groq")
	ctx, span := tracer.Start(ctx, "groq.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "groq"),
		attribute.String("ai.model", g.model),
		attribute.Int("ai.prompt_length", len(prompt)),
	)

	// The key check happens before any network traffic so a missing
	// credential surfaces as a configuration problem, not an upstream one.
	if g.apiKey == "" {
		err := apperrors.NewConfigError(apperrors.ErrCodeMissingAPIKey,
			"AI API key is not configured", nil)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	var tokenUsage *TokenUsage
	text, err := g.circuitBreaker.Execute(func() (string, error) {
		reply, usage, err := g.doRequest(ctx, prompt)
		tokenUsage = usage
		return reply, err
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, err
	}

	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("ai.reply_length", len(text)),
	)
	return text, tokenUsage, nil
}

// doRequest performs the single HTTP round trip to the completions endpoint
func (g *GroqProvider) doRequest(ctx context.Context, prompt string) (string, *TokenUsage, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", nil, apperrors.NewInternalError(apperrors.ErrCodeAIServiceFailed,
			"Failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", nil, apperrors.NewInternalError(apperrors.ErrCodeAIServiceFailed,
			"Failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, apperrors.NewNetworkError(apperrors.ErrCodeNetworkTimeout,
				"AI request was cancelled or timed out", err)
		}
		return "", nil, apperrors.NewNetworkError(apperrors.ErrCodeUpstreamFailed,
			"Failed to reach AI service", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, apperrors.NewNetworkError(apperrors.ErrCodeUpstreamFailed,
			"Failed to read AI service response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamBody := strings.TrimSpace(string(raw))
		g.logger.Warn("AI service returned an error status",
			"status", resp.StatusCode,
			"model", g.model,
			"body", upstreamBody)
		return "", nil, apperrors.NewNetworkError(apperrors.ErrCodeUpstreamFailed,
			fmt.Sprintf("AI service error (%d): %s", resp.StatusCode, upstreamBody), nil).
			WithContext("status_code", resp.StatusCode).
			WithContext("upstream_body", upstreamBody)
	}

	var envelope chatCompletionResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"AI service returned a non-JSON response", err)
	}

	var tokenUsage *TokenUsage
	if envelope.Usage != nil {
		tokenUsage = &TokenUsage{
			InputTokens:  envelope.Usage.PromptTokens,
			OutputTokens: envelope.Usage.CompletionTokens,
			TotalTokens:  envelope.Usage.TotalTokens,
		}
	}

	return extractReplyText(envelope, raw), tokenUsage, nil
}

// extractReplyText pulls the model text out of the response envelope.
// It prefers message.content, falls back to the legacy text field, and
// as a last resort hands back the whole envelope so the lenient parser
// downstream can try to salvage it.
func extractReplyText(envelope chatCompletionResponse, raw []byte) string {
	if len(envelope.Choices) > 0 {
		if content := envelope.Choices[0].Message.Content; content != "" {
			return content
		}
		if text := envelope.Choices[0].Text; text != "" {
			return text
		}
	}
	return string(raw)
}

// GetModelInfo reports the configured model. The completions endpoint
// has no cheap probe, so availability reflects configuration only.
func (g *GroqProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:      g.model,
		Available: g.apiKey != "",
	}
	if g.apiKey == "" {
		info.Error = "API key is not configured"
	}
	return info
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GroqProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations": g.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy()
	return stats
}

// Close implements AIProvider interface
func (g *GroqProvider) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}
