package ai

import (
	"reflect"
	"testing"
)

func TestNormalizeCompleteReply(t *testing.T) {
	env := ParseLoose(`{
		"overallRating": 8,
		"keyStrengths": ["Strong Go experience", "Clear project outcomes"],
		"areasForImprovement": ["Add quantifiable results"],
		"recommendedAdditions": ["Complete a cloud certification"],
		"recommendedKeywords": ["Go", "Kubernetes", "CI/CD"],
		"keywordOptimizationScore": 72,
		"atsCompatibilityScore": 91,
		"atsCompatibilityIssues": ["Two-column layout"],
		"summaryAdvice": "Focus on measurable impact."
	}`)
	if env == nil {
		t.Fatal("Expected envelope, got nil")
	}

	result := Normalize(env)

	if result.OverallScore != 80 {
		t.Errorf("OverallScore = %d, expected 80", result.OverallScore)
	}
	if result.KeywordOptimization.Score != 72 {
		t.Errorf("KeywordOptimization.Score = %d, expected 72", result.KeywordOptimization.Score)
	}
	if result.ATSCompatibility.Score != 91 {
		t.Errorf("ATSCompatibility.Score = %d, expected 91", result.ATSCompatibility.Score)
	}
	if !reflect.DeepEqual(result.Strengths, []string{"Strong Go experience", "Clear project outcomes"}) {
		t.Errorf("Strengths = %v", result.Strengths)
	}
	if !reflect.DeepEqual(result.Improvements, []string{"Add quantifiable results"}) {
		t.Errorf("Improvements = %v", result.Improvements)
	}
	if !reflect.DeepEqual(result.KeywordOptimization.Keywords, []string{"Go", "Kubernetes", "CI/CD"}) {
		t.Errorf("Keywords = %v", result.KeywordOptimization.Keywords)
	}
	if !reflect.DeepEqual(result.ATSCompatibility.Issues, []string{"Two-column layout"}) {
		t.Errorf("Issues = %v", result.ATSCompatibility.Issues)
	}

	expectedRecs := []string{"Complete a cloud certification", "Focus on measurable impact."}
	if !reflect.DeepEqual(result.Recommendations, expectedRecs) {
		t.Errorf("Recommendations = %v, expected %v", result.Recommendations, expectedRecs)
	}
}

func TestNormalizeEmptyEnvelope(t *testing.T) {
	result := Normalize(Envelope{})

	if result.OverallScore != 50 {
		t.Errorf("OverallScore = %d, expected default 50", result.OverallScore)
	}
	if result.KeywordOptimization.Score != 65 {
		t.Errorf("KeywordOptimization.Score = %d, expected default 65", result.KeywordOptimization.Score)
	}
	if result.ATSCompatibility.Score != 85 {
		t.Errorf("ATSCompatibility.Score = %d, expected default 85", result.ATSCompatibility.Score)
	}

	// Arrays come back empty, never nil, so JSON encodes [] not null
	for name, slice := range map[string][]string{
		"Strengths":       result.Strengths,
		"Improvements":    result.Improvements,
		"Suggestions":     result.KeywordOptimization.Suggestions,
		"Keywords":        result.KeywordOptimization.Keywords,
		"Issues":          result.ATSCompatibility.Issues,
		"Recommendations": result.Recommendations,
	} {
		if slice == nil {
			t.Errorf("%s is nil, expected empty slice", name)
		}
		if len(slice) != 0 {
			t.Errorf("%s = %v, expected empty", name, slice)
		}
	}
}

func TestNormalizeOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		expected int
	}{
		{name: "rating scaled by ten", envelope: Envelope{"overallRating": float64(7)}, expected: 70},
		{name: "fractional rating rounds", envelope: Envelope{"overallRating": float64(7.46)}, expected: 75},
		{name: "rating above scale clamps to 100", envelope: Envelope{"overallRating": float64(15)}, expected: 100},
		{name: "negative rating clamps to 0", envelope: Envelope{"overallRating": float64(-3)}, expected: 0},
		{name: "zero rating falls back", envelope: Envelope{"overallRating": float64(0)}, expected: 50},
		{name: "string rating coerces", envelope: Envelope{"overallRating": "9"}, expected: 90},
		{name: "garbage rating falls back", envelope: Envelope{"overallRating": "excellent"}, expected: 50},
		{name: "missing rating falls back", envelope: Envelope{}, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.envelope)
			if result.OverallScore != tt.expected {
				t.Errorf("OverallScore = %d, expected %d", result.OverallScore, tt.expected)
			}
		})
	}
}

func TestNormalizeKeywordScoreFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		expected int
	}{
		{
			name:     "explicit score wins",
			envelope: Envelope{"keywordOptimizationScore": float64(40), "recommendedAdditions": []any{"x"}},
			expected: 40,
		},
		{
			name:     "score above range clamps",
			envelope: Envelope{"keywordOptimizationScore": float64(140)},
			expected: 100,
		},
		{
			name:     "missing score with additions",
			envelope: Envelope{"recommendedAdditions": []any{"Add certs"}},
			expected: 80,
		},
		{
			name:     "missing score without additions",
			envelope: Envelope{},
			expected: 65,
		},
		{
			name:     "zero score with additions takes addition fallback",
			envelope: Envelope{"keywordOptimizationScore": float64(0), "recommendedAdditions": []any{"Add certs"}},
			expected: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.envelope)
			if result.KeywordOptimization.Score != tt.expected {
				t.Errorf("KeywordOptimization.Score = %d, expected %d", result.KeywordOptimization.Score, tt.expected)
			}
		})
	}
}

func TestNormalizeATSScoreFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		expected int
	}{
		{
			name:     "explicit score wins",
			envelope: Envelope{"atsCompatibilityScore": float64(55), "atsCompatibilityIssues": []any{"x"}},
			expected: 55,
		},
		{
			name:     "missing score with issues",
			envelope: Envelope{"atsCompatibilityIssues": []any{"Header image"}},
			expected: 70,
		},
		{
			name:     "missing score without issues",
			envelope: Envelope{},
			expected: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.envelope)
			if result.ATSCompatibility.Score != tt.expected {
				t.Errorf("ATSCompatibility.Score = %d, expected %d", result.ATSCompatibility.Score, tt.expected)
			}
		})
	}
}

func TestNormalizeRecommendations(t *testing.T) {
	t.Run("empty additions are filtered", func(t *testing.T) {
		env := Envelope{
			"recommendedAdditions": []any{"Add metrics", "", "Take a course"},
			"summaryAdvice":        "Keep it concise.",
		}
		result := Normalize(env)
		expected := []string{"Add metrics", "Take a course", "Keep it concise."}
		if !reflect.DeepEqual(result.Recommendations, expected) {
			t.Errorf("Recommendations = %v, expected %v", result.Recommendations, expected)
		}
	})

	t.Run("missing advice leaves only additions", func(t *testing.T) {
		env := Envelope{"recommendedAdditions": []any{"Add metrics"}}
		result := Normalize(env)
		if !reflect.DeepEqual(result.Recommendations, []string{"Add metrics"}) {
			t.Errorf("Recommendations = %v", result.Recommendations)
		}
	})

	t.Run("numeric advice is stringified", func(t *testing.T) {
		env := Envelope{"summaryAdvice": float64(42)}
		result := Normalize(env)
		if !reflect.DeepEqual(result.Recommendations, []string{"42"}) {
			t.Errorf("Recommendations = %v", result.Recommendations)
		}
	})

	t.Run("suggestions keep raw additions including empties", func(t *testing.T) {
		env := Envelope{"recommendedAdditions": []any{"Add metrics", ""}}
		result := Normalize(env)
		if !reflect.DeepEqual(result.KeywordOptimization.Suggestions, []string{"Add metrics", ""}) {
			t.Errorf("Suggestions = %v", result.KeywordOptimization.Suggestions)
		}
	})
}
