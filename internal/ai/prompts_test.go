package ai

import (
	"strings"
	"testing"
)

func TestTruncateResumeText(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		text := "short resume"
		if got := TruncateResumeText(text); got != text {
			t.Errorf("Expected text unchanged, got %q", got)
		}
	})

	t.Run("text at limit untouched", func(t *testing.T) {
		text := strings.Repeat("a", MaxResumeChars)
		got := TruncateResumeText(text)
		if got != text {
			t.Error("Expected text at limit to pass through without marker")
		}
	})

	t.Run("long text cut and marked", func(t *testing.T) {
		text := strings.Repeat("a", MaxResumeChars+100)
		got := TruncateResumeText(text)
		if len(got) != MaxResumeChars+len(TruncationMarker) {
			t.Errorf("Expected length %d, got %d", MaxResumeChars+len(TruncationMarker), len(got))
		}
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Error("Expected truncation marker suffix")
		}
	})
}

func TestBuildAnalysisPrompt(t *testing.T) {
	t.Run("default template substitution", func(t *testing.T) {
		prompt := BuildAnalysisPrompt("", "resume body text here", "Computer Science", "Software Engineering")

		if !strings.Contains(prompt, "graduated in Computer Science") {
			t.Error("Expected course in prompt")
		}
		if !strings.Contains(prompt, "applying to roles in Software Engineering") {
			t.Error("Expected industry in prompt")
		}
		if !strings.Contains(prompt, "RESUME_TEXT_START\nresume body text here\nRESUME_TEXT_END") {
			t.Error("Expected resume text between markers")
		}
		// The literal percentage in the guidelines must survive formatting
		if !strings.Contains(prompt, "reduced API latency by 30%") {
			t.Error("Expected literal percent sign in formatted prompt")
		}
		if strings.Contains(prompt, "%[1]s") || strings.Contains(prompt, "%[2]s") || strings.Contains(prompt, "%[3]s") {
			t.Error("Expected all template verbs to be substituted")
		}
	})

	t.Run("custom template", func(t *testing.T) {
		prompt := BuildAnalysisPrompt("Review %[3]s for %[1]s in %[2]s.", "the resume", "Nursing", "Healthcare")
		if prompt != "Review the resume for Nursing in Healthcare." {
			t.Errorf("Unexpected prompt: %q", prompt)
		}
	})

	t.Run("blank template falls back to default", func(t *testing.T) {
		prompt := BuildAnalysisPrompt("   \n", "text", "Course", "Industry")
		if !strings.Contains(prompt, "senior HR recruiter") {
			t.Error("Expected default template for blank input")
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := BuildAnalysisPrompt("", "resume", "Course", "Industry")
		b := BuildAnalysisPrompt("", "resume", "Course", "Industry")
		if a != b {
			t.Error("Expected identical prompts for identical input")
		}
	})

	t.Run("long resume truncated in prompt", func(t *testing.T) {
		long := strings.Repeat("x", MaxResumeChars+500)
		prompt := BuildAnalysisPrompt("", long, "Course", "Industry")
		if !strings.Contains(prompt, TruncationMarker) {
			t.Error("Expected truncation marker in prompt for oversized resume")
		}
	})
}
