package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AaronJay30/next-hire/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for resume analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.OverallScore))

	if len(result.Strengths) > 0 {
		output.WriteString("=== STRENGTHS ===\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("=== AREAS FOR IMPROVEMENT ===\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== KEYWORD OPTIMIZATION ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.KeywordOptimization.Score))
	if len(result.KeywordOptimization.Keywords) > 0 {
		output.WriteString("Keywords to add:\n")
		for _, keyword := range result.KeywordOptimization.Keywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}
	if len(result.KeywordOptimization.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for _, suggestion := range result.KeywordOptimization.Suggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== ATS COMPATIBILITY ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.ATSCompatibility.Score))
	if len(result.ATSCompatibility.Issues) > 0 {
		output.WriteString("Issues:\n")
		for _, issue := range result.ATSCompatibility.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== TOP RECOMMENDATIONS ===\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for resume analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("## Areas for Improvement\n\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Keyword Optimization\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.KeywordOptimization.Score))
	if len(result.KeywordOptimization.Keywords) > 0 {
		output.WriteString("### Keywords to Add\n")
		for _, keyword := range result.KeywordOptimization.Keywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}
	if len(result.KeywordOptimization.Suggestions) > 0 {
		output.WriteString("### Suggestions\n")
		for _, suggestion := range result.KeywordOptimization.Suggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	}

	output.WriteString("## ATS Compatibility\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.ATSCompatibility.Score))
	if len(result.ATSCompatibility.Issues) > 0 {
		output.WriteString("### Issues\n")
		for _, issue := range result.ATSCompatibility.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Top Recommendations\n\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
