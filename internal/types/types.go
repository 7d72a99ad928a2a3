package types

// AnalyzeResumeInput represents the input for analyzing a resume
type AnalyzeResumeInput struct {
	ResumeText string `json:"resumeText"`
	Course     string `json:"course"`
	Industry   string `json:"industry"`
}

// KeywordOptimization represents keyword coverage for the target industry
type KeywordOptimization struct {
	Score       int      `json:"score"`       // 0-100 keyword coverage score
	Suggestions []string `json:"suggestions"` // Concrete additions (skills, certifications, projects)
	Keywords    []string `json:"keywords"`    // High-value industry keywords worth adding
}

// ATSCompatibility represents how well the resume survives automated screening
type ATSCompatibility struct {
	Score  int      `json:"score"`  // 0-100 ATS parseability score
	Issues []string `json:"issues"` // Formatting problems that break ATS parsing
}

// AnalysisResult represents the complete resume analysis returned to clients.
// Every field is always populated; slice fields are empty rather than nil so
// consumers never have to nil-check before ranging.
type AnalysisResult struct {
	OverallScore        int                 `json:"overallScore"` // 0-100
	Strengths           []string            `json:"strengths"`
	Improvements        []string            `json:"improvements"`
	KeywordOptimization KeywordOptimization `json:"keywordOptimization"`
	ATSCompatibility    ATSCompatibility    `json:"atsCompatibility"`
	Recommendations     []string            `json:"recommendations"`
}
