package ai

import (
	"context"
)

// AIProvider interface for different AI implementations.
// Complete sends a single prompt and returns the raw model reply text.
// Implementations make exactly one upstream attempt per call; recovery
// from malformed replies happens downstream in the parser.
type AIProvider interface {
	Complete(ctx context.Context, prompt string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
