package ai

import (
	"math"

	"github.com/AaronJay30/next-hire/internal/types"
)

// Fallback scores used when the model omits a value. The keyword and ATS
// fallbacks depend on whether the model produced the related list: a
// model that suggests additions implies decent keyword awareness, and a
// model that reports no ATS issues implies a clean layout.
const (
	defaultOverallScore       = 50
	keywordScoreWithAdditions = 80
	keywordScoreBare          = 65
	atsScoreWithIssues        = 70
	atsScoreClean             = 85
)

// clampScore bounds a score to the 0-100 range.
func clampScore(n float64) int {
	return int(math.Min(100, math.Max(0, n)))
}

// Normalize maps a loosely-parsed model reply onto the fixed result
// schema. Every field is resolved independently so one malformed field
// never corrupts the rest of the result.
func Normalize(env Envelope) types.AnalysisResult {
	overallScore := defaultOverallScore
	if rating, ok := env.Number("overallRating"); ok {
		overallScore = clampScore(math.Round(rating * 10))
	}

	keywordScore := keywordScoreBare
	if score, ok := env.Number("keywordOptimizationScore"); ok {
		keywordScore = clampScore(score)
	} else if env.HasItems("recommendedAdditions") {
		keywordScore = keywordScoreWithAdditions
	}

	atsScore := atsScoreClean
	if score, ok := env.Number("atsCompatibilityScore"); ok {
		atsScore = clampScore(score)
	} else if env.HasItems("atsCompatibilityIssues") {
		atsScore = atsScoreWithIssues
	}

	additions := env.StringSlice("recommendedAdditions")
	recommendations := make([]string, 0, len(additions)+1)
	for _, item := range additions {
		if item != "" {
			recommendations = append(recommendations, item)
		}
	}
	if advice, ok := env.String("summaryAdvice"); ok {
		recommendations = append(recommendations, advice)
	}

	return types.AnalysisResult{
		OverallScore: overallScore,
		Strengths:    env.StringSlice("keyStrengths"),
		Improvements: env.StringSlice("areasForImprovement"),
		KeywordOptimization: types.KeywordOptimization{
			Score:       keywordScore,
			Suggestions: additions,
			Keywords:    env.StringSlice("recommendedKeywords"),
		},
		ATSCompatibility: types.ATSCompatibility{
			Score:  atsScore,
			Issues: env.StringSlice("atsCompatibilityIssues"),
		},
		Recommendations: recommendations,
	}
}
