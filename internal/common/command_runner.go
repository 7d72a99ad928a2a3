package common

import (
	"context"
	"fmt"
	"os"

	"github.com/AaronJay30/next-hire/internal/ai"
	"github.com/AaronJay30/next-hire/internal/errors"
	"github.com/AaronJay30/next-hire/internal/extract"
	"github.com/AaronJay30/next-hire/internal/types"
)

// AnalyzeOperationFunc runs the analysis pipeline for extracted resume text.
type AnalyzeOperationFunc func(context.Context, types.AnalyzeResumeInput) (types.AnalysisResult, *ai.TokenUsage, error)

// RunAnalyzeCommand encapsulates the common logic for the file-based analyze
// command: read the PDF, extract text, run the AI operation, write output.
func RunAnalyzeCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumePath, course, industry string,
	aiOperation AnalyzeOperationFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	data, err := fileProcessor.ValidateAndReadResume(resumePath)
	if err != nil {
		return err
	}

	text, err := extract.ExtractText(data)
	if err != nil {
		return err
	}
	if err := extract.ValidateExtractedText(text); err != nil {
		return err
	}

	input := types.AnalyzeResumeInput{
		ResumeText: text,
		Course:     course,
		Industry:   industry,
	}

	if logger != nil {
		logger.Info("Analyzing resume",
			"resume_file", resumePath,
			"course", course,
			"industry", industry,
			"text_length", len(text))
	}

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	// Report token usage
	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
