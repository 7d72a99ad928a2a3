package ai

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AaronJay30/next-hire/internal/config"
	"github.com/AaronJay30/next-hire/internal/errors"
	"github.com/AaronJay30/next-hire/internal/types"
)

// Service handles AI operations for resume analysis
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.Config
	logger   *errors.Logger
}

// NewService creates a new AI service instance
func NewService(cfg *config.Config, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"temperature", cfg.AI.Temperature,
		"timeout", cfg.AI.Timeout)

	switch cfg.AI.Provider {
	case "groq":
		provider, err = NewGroqProvider(&cfg.AI, logger)
	case "gemini":
		provider, err = NewGeminiProvider(&cfg.AI, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// AnalyzeResume runs the full analysis pipeline: prompt construction,
// one model call, lenient JSON recovery, and normalization into the
// fixed result schema. Every outcome of the model call except a totally
// unusable reply still produces a complete result.
func (s *Service) AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	tracer := otel.Tracer("nexthire.ai")
	ctx, span := tracer.Start(ctx, "ai.analyze_resume")
	defer span.End()

	span.SetAttributes(
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.String("input.course", input.Course),
		attribute.String("input.industry", input.Industry),
	)

	prompt := BuildAnalysisPrompt(s.config.GetAnalysisPrompt(), input.ResumeText, input.Course, input.Industry)

	reply, tokenUsage, err := s.Provider.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.AnalysisResult{}, nil, err
	}

	envelope := ParseLoose(reply)
	if envelope == nil {
		// The raw reply stays in server-side logs only; clients get a
		// generic parse failure.
		s.logger.Warn("AI reply could not be parsed as JSON",
			"reply_length", len(reply),
			"reply", reply)
		parseErr := errors.NewAIError(errors.ErrCodeUnparsableResponse,
			"AI response could not be interpreted as analysis JSON", nil)
		span.RecordError(parseErr)
		span.SetAttributes(attribute.Bool("success", false))
		return types.AnalysisResult{}, tokenUsage, parseErr
	}

	result := Normalize(envelope)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("analysis.overall_score", result.OverallScore),
		attribute.Int("analysis.keyword_score", result.KeywordOptimization.Score),
		attribute.Int("analysis.ats_score", result.ATSCompatibility.Score),
	)

	s.logger.Debug("Resume analysis completed",
		"overall_score", result.OverallScore,
		"keyword_score", result.KeywordOptimization.Score,
		"ats_score", result.ATSCompatibility.Score,
		"strengths", len(result.Strengths),
		"improvements", len(result.Improvements))

	return result, tokenUsage, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
