package ai

import (
	"fmt"
	"strings"
)

// MaxResumeChars caps how much resume text goes into a prompt. Longer
// resumes are cut and marked so the model knows the text is incomplete.
const MaxResumeChars = 12000

// TruncationMarker is appended to resume text that was cut at MaxResumeChars.
const TruncationMarker = "\n[TRUNCATED]"

// AnalysisPrompts contains the prompt templates for resume analysis.
// Templates use indexed verbs: %[1]s course, %[2]s industry, %[3]s resume text.
type AnalysisPrompts struct {
	AnalyzeResume string
}

// DefaultAnalysisPrompts provides the built-in analysis prompt template
var DefaultAnalysisPrompts = AnalysisPrompts{
	AnalyzeResume: `You are a senior HR recruiter with 10+ years of experience evaluating candidates who graduated in %[1]s and are applying to roles in %[2]s.
Carefully analyze the RESUME TEXT provided below and respond ONLY with valid JSON (no commentary, no code fences, no extra fields). The JSON must follow this schema exactly:

{
  "overallRating": number,                 // integer 1-10 (holistic fit for %[2]s)
  "keyStrengths": string[],                // 3-8 concise bullet points (skills, experiences, degrees)
  "areasForImprovement": string[],         // 3-8 concise bullet points (gaps, missing metrics, clarity)
  "recommendedAdditions": string[],        // 3-6 actionable items (skills, certs, projects, phrasing)
  "recommendedKeywords": string[],         // 6-12 high-value industry keywords to add (single words or short phrases)
  "keywordOptimizationScore": number,      // 0-100 (how well resume matches target keywords)
  "atsCompatibilityScore": number,         // 0-100 (how well resume will be parsed by ATS)
  "atsCompatibilityIssues": string[],      // list of issues that may break ATS parsing (formatting, images, tables, headers)
  "summaryAdvice": string                  // 1-2 short paragraphs (max ~150 words) with clear next steps
}

Guidelines for producing values:
- overallRating: provide an integer between 1 (low) and 10 (excellent) reflecting fit for %[2]s.
- keyStrengths: be specific (e.g., "Built REST APIs in Node.js; reduced API latency by 30%%"), avoid vague phrases.
- areasForImprovement: be actionable (e.g., "Add quantifiable results", "Clarify role responsibilities", "Include leadership examples").
- recommendedAdditions: prioritize items that are achievable within 1-3 months (courses, certs, sample projects).
- recommendedKeywords: select terms commonly found in %[2]s job descriptions and relevant to %[1]s; prefer canonical spellings (e.g., "React", "REST API", "CI/CD").
- keywordOptimizationScore: compute as integer percent representing keyword coverage and relevance (0 = none, 100 = excellent coverage). Base it on the presence and placement of the top recommended keywords.
- atsCompatibilityScore: compute as integer percent reflecting ease of parsing by Applicant Tracking Systems (headers, text-only layout, no images/tables, standard section names). 100 = fully ATS-friendly.
- atsCompatibilityIssues: list concrete parsing problems (e.g., "Header image with contact info", "Two-column layout", "Unclear section headings like 'Accomplish' instead of 'Experience'").
- summaryAdvice: concise, prioritized steps (exact 3-5 bullets/next actions may be embedded in the paragraph but keep it short).

If the resume omits information, make conservative inferences but mark them as inferred - for example include the word "(inferred)" in the recommendation text when you infer something.

RESPOND ONLY WITH THE JSON OBJECT (no explanation, no preamble). The "Resume" text follows below.

RESUME_TEXT_START
%[3]s
RESUME_TEXT_END`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	AnalysisPrompts AnalysisPrompts `json:"analysisPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		AnalysisPrompts: DefaultAnalysisPrompts,
	}
}

// TruncateResumeText cuts resume text at MaxResumeChars and appends the
// truncation marker only when text was actually removed.
func TruncateResumeText(text string) string {
	if len(text) <= MaxResumeChars {
		return text
	}
	return text[:MaxResumeChars] + TruncationMarker
}

// BuildAnalysisPrompt renders the analysis prompt from a template. The
// same inputs always produce the same prompt. An empty template falls
// back to the built-in default.
func BuildAnalysisPrompt(template, resumeText, course, industry string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultAnalysisPrompts.AnalyzeResume
	}
	return fmt.Sprintf(template, course, industry, TruncateResumeText(resumeText))
}
