package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/AaronJay30/next-hire/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		OverallScore: 78,
		Strengths:    []string{"Strong project descriptions"},
		Improvements: []string{"Add a skills section"},
		KeywordOptimization: types.KeywordOptimization{
			Score:       72,
			Suggestions: []string{"Highlight cloud experience"},
			Keywords:    []string{"AWS", "Terraform"},
		},
		ATSCompatibility: types.ATSCompatibility{
			Score:  85,
			Issues: []string{"Two-column layout may confuse parsers"},
		},
		Recommendations: []string{"Quantify achievements with metrics"},
	}
}

func TestFormatJSON(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.OverallScore != 78 {
		t.Errorf("expected overall score 78, got %d", decoded.OverallScore)
	}
}

func TestFormatText(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSections := []string{
		"=== RESUME ANALYSIS ===",
		"Overall Score: 78/100",
		"=== STRENGTHS ===",
		"Strong project descriptions",
		"=== KEYWORD OPTIMIZATION ===",
		"AWS",
		"=== ATS COMPATIBILITY ===",
		"Score: 85/100",
		"=== TOP RECOMMENDATIONS ===",
		"1. Quantify achievements with metrics",
	}
	for _, section := range wantSections {
		if !strings.Contains(output, section) {
			t.Errorf("text output missing %q", section)
		}
	}
}

func TestFormatMarkdown(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSections := []string{
		"# Resume Analysis",
		"**Overall Score:** 78/100",
		"## Strengths",
		"## Keyword Optimization",
		"### Keywords to Add",
		"## ATS Compatibility",
		"## Top Recommendations",
	}
	for _, section := range wantSections {
		if !strings.Contains(output, section) {
			t.Errorf("markdown output missing %q", section)
		}
	}
}

func TestFormatEmptySections(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(types.AnalysisResult{OverallScore: 50}, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "=== STRENGTHS ===") {
		t.Error("empty strengths should not render a section")
	}
	if strings.Contains(output, "=== TOP RECOMMENDATIONS ===") {
		t.Error("empty recommendations should not render a section")
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatGenericFallback(t *testing.T) {
	registry := NewFormatterRegistry()

	// Unknown types fall back to the generic JSON formatter.
	output, err := registry.Format(map[string]int{"count": 3}, "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, `"count": 3`) {
		t.Errorf("unexpected generic output: %q", output)
	}
}

func TestGetSupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	formats := registry.GetSupportedFormats()
	want := map[string]bool{"json": false, "text": false, "markdown": false}
	for _, f := range formats {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected format %q to be supported", f)
		}
	}
}
