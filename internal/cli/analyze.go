package cli

import (
	"context"
	"fmt"

	"github.com/AaronJay30/next-hire/internal/ai"
	"github.com/AaronJay30/next-hire/internal/common"
	"github.com/AaronJay30/next-hire/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-pdf]",
	Short: "Analyze a resume PDF for a target course and industry",
	Long: `Analyze a resume PDF against a target course of study and industry.

The analysis includes:
- Overall resume quality scoring
- Strengths and areas for improvement
- Keyword optimization for the target industry
- ATS (applicant tracking system) compatibility assessment
- Actionable recommendations`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig   common.CommandConfig
	analyzeCourse   string
	analyzeIndustry string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeCourse, "course", "c", "", "Course or field of study (required)")
	analyzeCmd.Flags().StringVarP(&analyzeIndustry, "industry", "i", "", "Target industry (required)")
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = analyzeCmd.MarkFlagRequired("course")
	_ = analyzeCmd.MarkFlagRequired("industry")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	aiService, err := ai.NewService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	analyzeOperation := func(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *ai.TokenUsage, error) {
		return aiService.AnalyzeResume(ctx, input)
	}

	err = common.RunAnalyzeCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		analyzeCourse,
		analyzeIndustry,
		analyzeOperation,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
